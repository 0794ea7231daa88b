package engine

import "jrpc/message"

// run is the engine's actor loop: the only goroutine that ever reads or
// writes methods/notifiers/waiting/batches or calls send. It
// consumes the merged inbound-frame and outbound-command streams
// sequentially, one at a time.
func (e *Engine) run() {
	waiting := make(map[message.Id]chan callResult)
	batches := make(map[IdSet]chan batchResult)

	for {
		select {
		case f := <-e.frames:
			if f.binary {
				if err := e.handleBinaryFrame(); err != nil {
					e.stop(err)
					return
				}
				continue
			}
			if err := e.handleTextFrame(f.text, waiting, batches); err != nil {
				e.stop(err)
				return
			}
		case c := <-e.commands:
			stop, err := e.handleCommand(c, waiting, batches)
			if err != nil {
				e.stop(err)
				return
			}
			if stop {
				e.stop(nil)
				return
			}
		}
	}
}
