package logging

// DefaultProgressInterval is the number of accepted documents between
// progress lines during a corpus pass.
const DefaultProgressInterval = 10000

// ProgressSampler suppresses per-document progress logs, emitting only when
// a running count crosses the next multiple of the interval.
type ProgressSampler struct {
	every      int
	lastBucket int
}

// NewProgressSampler constructs a sampler; a non-positive interval selects
// DefaultProgressInterval.
func NewProgressSampler(every int) *ProgressSampler {
	if every <= 0 {
		every = DefaultProgressInterval
	}
	return &ProgressSampler{every: every}
}

// ShouldLog reports whether count reached a new multiple of the interval.
// A nil sampler logs everything.
func (s *ProgressSampler) ShouldLog(count int) bool {
	if s == nil {
		return true
	}
	bucket := count / s.every
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state before a new pass.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = 0
}
