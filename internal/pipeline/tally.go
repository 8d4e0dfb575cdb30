package pipeline

import (
	"cassprep/internal/extract"
	"cassprep/internal/split"
)

// Tally accumulates the outcome of a pass. Steps take a Tally and return the
// updated value.
type Tally struct {
	Accepted int
	// Rejections counts skipped documents per extract.Reason.
	NoRegions    int
	EmptyBody    int
	EmptySummary int
	// Preexisting is the number of stories in the destination before the
	// pass started.
	Preexisting int
	// Overwritten counts writes that replaced an existing story, including
	// one written earlier in the same pass.
	Overwritten int
	Split       split.Counts
}

// Accept records an accepted document.
func (t Tally) Accept(overwrote bool) Tally {
	t.Accepted++
	if overwrote {
		t.Overwritten++
	}
	return t
}

// Reject records a skipped document.
func (t Tally) Reject(reason extract.Reason) Tally {
	switch reason {
	case extract.ReasonNoRegions:
		t.NoRegions++
	case extract.ReasonEmptyBody:
		t.EmptyBody++
	case extract.ReasonEmptySummary:
		t.EmptySummary++
	}
	return t
}

// Rejected is the total number of skipped documents.
func (t Tally) Rejected() int {
	return t.NoRegions + t.EmptyBody + t.EmptySummary
}

// Rejections returns the skip count for reason.
func (t Tally) Rejections(reason extract.Reason) int {
	switch reason {
	case extract.ReasonNoRegions:
		return t.NoRegions
	case extract.ReasonEmptyBody:
		return t.EmptyBody
	case extract.ReasonEmptySummary:
		return t.EmptySummary
	default:
		return 0
	}
}

// ExpectedStories is the story count the destination must hold after the pass.
func (t Tally) ExpectedStories() int {
	return t.Preexisting + t.Accepted - t.Overwritten
}
