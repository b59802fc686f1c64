package host

import (
	"context"
)

// Drain runs tasks concurrently and feeds their completions back through the
// router until no task is outstanding or ctx is done. Tasks still running
// when ctx is done are abandoned; their results are discarded.
func Drain(ctx context.Context, r *Router, pending []Pending) error {
	results := make(chan Completion, len(pending))
	inflight := 0
	start := func(ps []Pending) {
		for _, p := range ps {
			inflight++
			go func(p Pending) {
				c := p.Run()
				select {
				case results <- c:
				case <-ctx.Done():
				}
			}(p)
		}
	}

	start(pending)
	for inflight > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-results:
			inflight--
			start(r.Deliver(c))
		}
	}
	return nil
}
