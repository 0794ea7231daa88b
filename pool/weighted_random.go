package pool

import "math/rand"

// WeightedRandom picks a member with probability proportional to its
// weight, for pools of heterogeneous members.
type WeightedRandom struct{}

func (b *WeightedRandom) Pick(members []Member) (Member, error) {
	if len(members) == 0 {
		return Member{}, errNoMembers()
	}

	total := 0
	for _, m := range members {
		total += m.Weight
	}
	if total <= 0 {
		return members[rand.Intn(len(members))], nil
	}

	r := rand.Intn(total)
	for _, m := range members {
		r -= m.Weight
		if r < 0 {
			return m, nil
		}
	}
	return members[len(members)-1], nil
}

func (b *WeightedRandom) Name() string { return "WeightedRandom" }
