package engine

import (
	"sort"
	"strings"

	"jrpc/message"
)

// IdSet is the correlation key for a pending batch call: the unordered
// set of ids a batch's requests carried (notifications excluded), reduced
// to a sorted canonical string so it can be used as a map key.
type IdSet string

// NewIdSet builds the canonical key for a batch's request ids.
func NewIdSet(ids []message.Id) IdSet {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.CanonicalKey()
	}
	sort.Strings(keys)
	return IdSet(strings.Join(keys, "|"))
}

// idSetOfResponses builds the candidate key a response array would
// correlate to, or ok=false if any element lacks an id (a malformed batch
// response can never match a pending idset).
func idSetOfResponses(resps []*message.Response) (IdSet, bool) {
	ids := make([]message.Id, 0, len(resps))
	for _, r := range resps {
		if r.Id == nil {
			return "", false
		}
		ids = append(ids, *r.Id)
	}
	return NewIdSet(ids), true
}
