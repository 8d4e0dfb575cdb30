package split_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"cassprep/internal/faults"
	"cassprep/internal/split"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("JURITEXT%06d", i)
	}
	return ids
}

func readList(t *testing.T, w split.ListWriter, set split.Set) []string {
	t.Helper()
	data, err := os.ReadFile(w.Path(set))
	if err != nil {
		t.Fatalf("read %s: %v", set.FileName(), err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestAssignProportions(t *testing.T) {
	ids := makeIDs(100)
	p, err := split.Assign(ids, split.Batch{Train: 0.8, Validation: 0.1, Test: 0.1, Seed: 42})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got := p.Counts(); got != (split.Counts{Train: 80, Validation: 10, Test: 10}) {
		t.Fatalf("unexpected counts %+v", got)
	}

	union := slices.Concat(p.Train, p.Validation, p.Test)
	slices.Sort(union)
	if !reflect.DeepEqual(union, ids) {
		t.Fatal("lists are not a disjoint cover of the input")
	}
}

func TestAssignSmallCorpus(t *testing.T) {
	p, err := split.Assign(makeIDs(7), split.Batch{Train: 0.8, Validation: 0.1, Test: 0.1, Seed: 42})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got := p.Counts(); got != (split.Counts{Train: 5, Validation: 1, Test: 1}) {
		t.Fatalf("unexpected counts %+v", got)
	}
}

func TestAssignLeavesRemainderUnassigned(t *testing.T) {
	p, err := split.Assign(makeIDs(100), split.Batch{Train: 0.5, Validation: 0.1, Test: 0.1, Seed: 1})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got := p.Counts(); got != (split.Counts{Train: 50, Validation: 10, Test: 10, Unassigned: 30}) {
		t.Fatalf("unexpected counts %+v", got)
	}
}

func TestAssignTrainOnly(t *testing.T) {
	p, err := split.Assign(makeIDs(10), split.Batch{Train: 1})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(p.Train) != 10 || len(p.Validation) != 0 || len(p.Test) != 0 {
		t.Fatalf("unexpected counts %+v", p.Counts())
	}
}

func TestAssignDeterministic(t *testing.T) {
	ids := makeIDs(50)
	mode := split.Batch{Train: 0.8, Validation: 0.1, Test: 0.1, Seed: 42}
	a, _ := split.Assign(ids, mode)
	b, _ := split.Assign(ids, mode)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different partitions")
	}
	mode.Seed = 43
	c, _ := split.Assign(ids, mode)
	if reflect.DeepEqual(a.Train, c.Train) {
		t.Fatal("different seeds produced identical training lists")
	}
}

func TestAssignRejectsBadProportions(t *testing.T) {
	for _, mode := range []split.Batch{
		{Train: 0.9, Validation: 0.1, Test: 0.1},
		{Train: 0.8, Validation: -0.1, Test: 0.1},
		{Train: 1.5},
	} {
		if _, err := split.Assign(makeIDs(3), mode); !errors.Is(err, faults.ErrConfiguration) {
			t.Fatalf("%+v: expected configuration error, got %v", mode, err)
		}
	}
	if err := (split.Batch{Train: 0.7, Validation: 0.2, Test: 0.1}).Validate(); err != nil {
		t.Fatalf("0.7/0.2/0.1 should validate: %v", err)
	}
}

func TestBatchPlannerWritesLists(t *testing.T) {
	w := split.ListWriter{Dir: filepath.Join(t.TempDir(), "nested")}
	planner, err := split.NewPlanner(split.Batch{Train: 0.8, Validation: 0.1, Test: 0.1, Seed: 42}, w)
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}

	var counts split.Counts
	for _, id := range append(makeIDs(20), "JURITEXT000003") {
		var assigned []split.Assignment
		assigned, counts, err = planner.Observe(id, counts)
		if err != nil {
			t.Fatalf("Observe: %v", err)
		}
		if len(assigned) != 0 {
			t.Fatal("batch planner assigned before Finish")
		}
	}
	assigned, counts, err := planner.Finish(counts)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if counts != (split.Counts{Train: 16, Validation: 2, Test: 2, Duplicates: 1}) {
		t.Fatalf("unexpected counts %+v", counts)
	}
	if len(assigned) != 20 {
		t.Fatalf("expected 20 assignments, got %d", len(assigned))
	}
	for _, a := range assigned {
		if !slices.Contains(readList(t, w, a.Set), a.ID) {
			t.Fatalf("%s missing from %s", a.ID, a.Set.FileName())
		}
	}
}

func runStreaming(t *testing.T, dir string, seed uint64, reset bool, ids []string) split.Counts {
	t.Helper()
	planner, err := split.NewPlanner(split.Streaming{Seed: seed, Reset: reset}, split.ListWriter{Dir: dir})
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	var counts split.Counts
	for _, id := range ids {
		if _, counts, err = planner.Observe(id, counts); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	if _, counts, err = planner.Finish(counts); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return counts
}

func TestStreamingReproducible(t *testing.T) {
	ids := makeIDs(200)
	a := split.ListWriter{Dir: t.TempDir()}
	b := split.ListWriter{Dir: t.TempDir()}
	runStreaming(t, a.Dir, 9, true, ids)
	runStreaming(t, b.Dir, 9, true, ids)

	for _, set := range split.Sets {
		if !reflect.DeepEqual(readList(t, a, set), readList(t, b, set)) {
			t.Fatalf("%s differs between runs with the same seed", set.FileName())
		}
	}
}

func TestStreamingResetAndAppend(t *testing.T) {
	w := split.ListWriter{Dir: t.TempDir()}
	ids := makeIDs(30)

	first := runStreaming(t, w.Dir, 1, true, ids)
	if first.Assigned() != 30 {
		t.Fatalf("expected 30 assignments, got %+v", first)
	}
	runStreaming(t, w.Dir, 1, false, ids)
	total := 0
	for _, set := range split.Sets {
		total += len(readList(t, w, set))
	}
	if total != 60 {
		t.Fatalf("appending run should double the lists, got %d lines", total)
	}

	runStreaming(t, w.Dir, 1, true, ids)
	total = 0
	for _, set := range split.Sets {
		total += len(readList(t, w, set))
	}
	if total != 30 {
		t.Fatalf("reset run should rewrite the lists, got %d lines", total)
	}
}

func TestStreamingIgnoresDuplicates(t *testing.T) {
	counts := runStreaming(t, t.TempDir(), 3, true, []string{"a", "b", "a", "c", "b"})
	if counts.Assigned() != 3 || counts.Duplicates != 2 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestStreamingLongRunProportions(t *testing.T) {
	counts := runStreaming(t, t.TempDir(), 42, true, makeIDs(5000))
	share := float64(counts.Train) / 5000
	if share < 0.77 || share > 0.83 {
		t.Fatalf("train share %.3f outside expected range", share)
	}
	for _, n := range []int{counts.Validation, counts.Test} {
		if s := float64(n) / 5000; s < 0.08 || s > 0.12 {
			t.Fatalf("holdout share %.3f outside expected range", s)
		}
	}
}

func TestParseSet(t *testing.T) {
	for _, set := range split.Sets {
		got, ok := split.ParseSet(set.String())
		if !ok || got != set {
			t.Fatalf("ParseSet(%q) = %v, %v", set.String(), got, ok)
		}
	}
	if _, ok := split.ParseSet("dev"); ok {
		t.Fatal("unexpected set for dev")
	}
}
