package split

import (
	"fmt"
	"math"

	"cassprep/internal/faults"
)

// proportionTolerance absorbs float rounding such as 0.7+0.2+0.1.
const proportionTolerance = 1e-9

// Mode selects how identifiers are partitioned. It is implemented by Batch
// and Streaming only.
type Mode interface {
	Name() string
	isMode()
}

// Batch partitions the complete identifier list once the run has finished.
type Batch struct {
	Train      float64
	Validation float64
	Test       float64
	Seed       uint64
}

// Streaming assigns each identifier as soon as it is accepted.
type Streaming struct {
	Seed uint64
	// Reset truncates the list files when the planner is created.
	Reset bool
}

func (Batch) Name() string     { return "batch" }
func (Streaming) Name() string { return "streaming" }
func (Batch) isMode()          {}
func (Streaming) isMode()      {}

// Validate rejects negative proportions and proportions summing above 1.0.
func (b Batch) Validate() error {
	for _, p := range []struct {
		name  string
		value float64
	}{{"train", b.Train}, {"validation", b.Validation}, {"test", b.Test}} {
		if p.value < 0 || p.value > 1 || math.IsNaN(p.value) {
			return faults.Wrap(faults.ErrConfiguration, "split", p.name,
				fmt.Sprintf("must be between 0 and 1, got %v", p.value), nil)
		}
	}
	sum := b.Train + b.Validation + b.Test
	if sum > 1.0+proportionTolerance {
		return faults.Wrap(faults.ErrConfiguration, "split", "proportions",
			fmt.Sprintf("train (%v) + validation (%v) + test (%v) = %v > 1.0", b.Train, b.Validation, b.Test, sum), nil)
	}
	return nil
}
