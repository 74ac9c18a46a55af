package discovery

import "sync"

// NearEnd reports whether the selection at index is within threshold rows of the end of a list of length items.
//
// An empty list is always near its end, so a view that filters out every loaded movie still pulls the next page.
func NearEnd(index, length, threshold int) bool {
	if length == 0 {
		return true
	}
	if threshold < 0 {
		threshold = 0
	}
	return index >= length-1-threshold
}

// ScrollCoordinator turns proximity signals into next-page requests.
//
// It fires at most once per transition into "near the end". It re-arms when the list moves away from the end, or
// when [ScrollCoordinator.Rearm] is called after a page lands so a list that is still short keeps filling.
type ScrollCoordinator struct {
	mu    sync.Mutex
	agg   *Aggregator
	armed bool
}

// NewScrollCoordinator creates an armed coordinator for agg.
func NewScrollCoordinator(agg *Aggregator) *ScrollCoordinator {
	return &ScrollCoordinator{agg: agg, armed: true}
}

// Signal reports the current proximity. On a transition into near it asks the aggregator to begin the next page and
// returns that request; every other signal returns false.
func (s *ScrollCoordinator) Signal(near bool) (PageRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !near {
		s.armed = true
		return PageRequest{}, false
	}
	if !s.armed {
		return PageRequest{}, false
	}
	s.armed = false
	return s.agg.BeginMore()
}

// Rearm lets the next near signal fire even if the list never left the end.
func (s *ScrollCoordinator) Rearm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
}
