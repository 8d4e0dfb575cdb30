package split

import (
	"fmt"
	"math/rand/v2"

	"cassprep/internal/faults"
)

// Counts accumulates list sizes across a run.
type Counts struct {
	Train      int
	Validation int
	Test       int
	Unassigned int
	Duplicates int
}

// Add returns c with one more identifier in set.
func (c Counts) Add(set Set) Counts {
	switch set {
	case Train:
		c.Train++
	case Validation:
		c.Validation++
	case Test:
		c.Test++
	}
	return c
}

// Assigned is the number of identifiers written to any list.
func (c Counts) Assigned() int {
	return c.Train + c.Validation + c.Test
}

// Assignment records the set chosen for one identifier.
type Assignment struct {
	ID  string
	Set Set
}

// Planner assigns identifiers offered in acceptance order. Observe may return
// assignments immediately (streaming) or buffer them until Finish (batch).
type Planner interface {
	Observe(id string, counts Counts) ([]Assignment, Counts, error)
	Finish(counts Counts) ([]Assignment, Counts, error)
}

// NewPlanner returns the planner for mode writing through w.
func NewPlanner(mode Mode, w ListWriter) (Planner, error) {
	switch m := mode.(type) {
	case Batch:
		if err := m.Validate(); err != nil {
			return nil, err
		}
		return &batchPlanner{mode: m, writer: w, seen: map[string]struct{}{}}, nil
	case Streaming:
		if m.Reset {
			if err := w.Reset(); err != nil {
				return nil, err
			}
		} else if err := w.ensureDir(); err != nil {
			return nil, err
		}
		return &streamingPlanner{
			rng:    rand.New(rand.NewPCG(m.Seed, m.Seed)),
			writer: w,
			seen:   map[string]struct{}{},
		}, nil
	default:
		return nil, faults.Wrap(faults.ErrConfiguration, "split", "select mode", fmt.Sprintf("unsupported mode %T", mode), nil)
	}
}

type batchPlanner struct {
	mode   Batch
	writer ListWriter
	ids    []string
	seen   map[string]struct{}
}

func (p *batchPlanner) Observe(id string, counts Counts) ([]Assignment, Counts, error) {
	if _, dup := p.seen[id]; dup {
		counts.Duplicates++
		return nil, counts, nil
	}
	p.seen[id] = struct{}{}
	p.ids = append(p.ids, id)
	return nil, counts, nil
}

func (p *batchPlanner) Finish(counts Counts) ([]Assignment, Counts, error) {
	partition, err := Assign(p.ids, p.mode)
	if err != nil {
		return nil, counts, err
	}
	if err := p.writer.WriteAll(partition); err != nil {
		return nil, counts, err
	}
	assignments := make([]Assignment, 0, len(p.ids))
	for _, set := range Sets {
		for _, id := range partition.IDs(set) {
			assignments = append(assignments, Assignment{ID: id, Set: set})
			counts = counts.Add(set)
		}
	}
	counts.Unassigned += len(partition.Unassigned)
	return assignments, counts, nil
}

type streamingPlanner struct {
	rng    *rand.Rand
	writer ListWriter
	seen   map[string]struct{}
}

func (p *streamingPlanner) Observe(id string, counts Counts) ([]Assignment, Counts, error) {
	if _, dup := p.seen[id]; dup {
		counts.Duplicates++
		return nil, counts, nil
	}
	p.seen[id] = struct{}{}

	set := draw(p.rng)
	if err := p.writer.Append(set, id); err != nil {
		return nil, counts, err
	}
	return []Assignment{{ID: id, Set: set}}, counts.Add(set), nil
}

func (p *streamingPlanner) Finish(counts Counts) ([]Assignment, Counts, error) {
	return nil, counts, nil
}

// draw maps a uniform digit to a set: 0-7 train, 8 validation, 9 test.
func draw(rng *rand.Rand) Set {
	switch rng.IntN(10) {
	case 8:
		return Validation
	case 9:
		return Test
	default:
		return Train
	}
}
