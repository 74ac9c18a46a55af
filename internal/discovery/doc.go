// Package discovery accumulates paginated movie listings for one active query.
//
// A [QueryFilter] identifies the listing (trending window, search text, or discover genre/year/sort). The [Aggregator]
// owns a single [Cursor] for the active filter and moves it through the states
//
//	Idle -> Loading -> HasMore | Exhausted | Error
//	HasMore -> Loading (load more)
//	Error -> Loading (retry, same page)
//
// Pages are merged first-seen by movie id in arrival order and never re-sorted locally. Switching to a filter that is
// not equal to the current one discards the cursor; a response for a discarded cursor is dropped when it arrives.
// Only one page request is outstanding per cursor.
//
// The aggregator exposes two shapes over the same state machine: Begin*/[Aggregator.Complete] for callers that run
// the fetch themselves (the TUI runs it as a bubbletea command), and the blocking [Aggregator.Activate],
// [Aggregator.LoadMore] and [Aggregator.Retry].
//
// The [ScrollCoordinator] turns "near the end of the list" signals into load-more requests, at most one per approach.
package discovery
