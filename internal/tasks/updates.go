package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a multi-request load.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Completed steps so far
	Total   int    // Total steps in the load
	Message string // Human-readable message for display
	Err     error  // Set when the phase failed
}

// Operation phase enumeration
type Phase int

const (
	FetchDetail Phase = iota
	FetchCredits
	FetchVideos
	FetchSimilar
	FetchTrending
	FetchGenres
)

func (p Phase) String() string {
	switch p {
	case FetchDetail:
		return "fetch_detail"
	case FetchCredits:
		return "fetch_credits"
	case FetchVideos:
		return "fetch_videos"
	case FetchSimilar:
		return "fetch_similar"
	case FetchTrending:
		return "fetch_trending"
	case FetchGenres:
		return "fetch_genres"
	default:
		return ""
	}
}

// Label names what the phase loads, for display.
func (p Phase) Label() string {
	switch p {
	case FetchDetail:
		return "details"
	case FetchCredits:
		return "cast and crew"
	case FetchVideos:
		return "videos"
	case FetchSimilar:
		return "similar movies"
	case FetchTrending:
		return "trending movies"
	case FetchGenres:
		return "genres"
	default:
		return "data"
	}
}

func phaseDoneUpdate(phase Phase, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Loaded %s", step, total, phase.Label()),
	}
}

func phaseFailedUpdate(phase Phase, step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, phase.Label(), err),
		Err:     err,
	}
}
