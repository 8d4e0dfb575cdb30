package split

import (
	"math"
	"math/rand/v2"
)

// Partition is the result of a batch split. Unassigned holds identifiers left
// over when the proportions sum to less than 1.
type Partition struct {
	Train      []string
	Validation []string
	Test       []string
	Unassigned []string
}

// IDs returns the identifiers assigned to set.
func (p Partition) IDs(set Set) []string {
	switch set {
	case Train:
		return p.Train
	case Validation:
		return p.Validation
	default:
		return p.Test
	}
}

// Counts summarizes the partition.
func (p Partition) Counts() Counts {
	return Counts{
		Train:      len(p.Train),
		Validation: len(p.Validation),
		Test:       len(p.Test),
		Unassigned: len(p.Unassigned),
	}
}

// Assign partitions ids in two stages. The shuffled list first yields a
// holdout of ceil((validation+test)*n) identifiers followed by
// floor(train*n) training identifiers. The holdout is then shuffled again
// with the same seed and its first ceil(test/(validation+test)*m)
// identifiers become the test set, the rest validation.
func Assign(ids []string, b Batch) (Partition, error) {
	if err := b.Validate(); err != nil {
		return Partition{}, err
	}
	n := len(ids)
	shuffled := shuffle(ids, b.Seed)

	holdoutShare := b.Validation + b.Test
	nHoldout := ceilCount(holdoutShare * float64(n))
	nTrain := min(floorCount(b.Train*float64(n)), n-nHoldout)

	holdout := shuffled[:nHoldout]
	p := Partition{
		Train:      shuffled[nHoldout : nHoldout+nTrain],
		Unassigned: shuffled[nHoldout+nTrain:],
	}
	if nHoldout == 0 {
		return p, nil
	}

	holdout = shuffle(holdout, b.Seed)
	nTest := min(ceilCount(b.Test/holdoutShare*float64(nHoldout)), nHoldout)
	p.Test = holdout[:nTest]
	p.Validation = holdout[nTest:]
	return p, nil
}

func shuffle(ids []string, seed uint64) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func ceilCount(x float64) int {
	return int(math.Ceil(x - proportionTolerance))
}

func floorCount(x float64) int {
	return int(math.Floor(x + proportionTolerance))
}
