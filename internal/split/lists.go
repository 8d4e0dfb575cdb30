package split

import (
	"fmt"
	"os"
	"path/filepath"

	"cassprep/internal/faults"
	"cassprep/internal/fileutil"
)

// Set names one of the three output lists.
type Set int

const (
	Train Set = iota
	Validation
	Test
)

// Sets lists every set in output order.
var Sets = []Set{Train, Validation, Test}

func (s Set) String() string {
	switch s {
	case Train:
		return "train"
	case Validation:
		return "validation"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("set(%d)", int(s))
	}
}

// FileName returns the list file name for the set.
func (s Set) FileName() string {
	switch s {
	case Train:
		return "all_train.txt"
	case Validation:
		return "all_val.txt"
	default:
		return "all_test.txt"
	}
}

// ParseSet accepts the names produced by Set.String.
func ParseSet(name string) (Set, bool) {
	for _, s := range Sets {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// ListWriter persists identifiers to the three line-delimited list files.
type ListWriter struct {
	Dir string
}

// Path returns the list file for set.
func (w ListWriter) Path(set Set) string {
	return filepath.Join(w.Dir, set.FileName())
}

// Append adds one identifier to the set's list. The file is opened and closed
// for every call.
func (w ListWriter) Append(set Set, id string) error {
	if err := fileutil.AppendLine(w.Path(set), id); err != nil {
		return faults.Wrap(faults.ErrIO, "split", "append "+set.FileName(), id, err)
	}
	return nil
}

// Reset empties all three lists, creating them if needed.
func (w ListWriter) Reset() error {
	if err := w.ensureDir(); err != nil {
		return err
	}
	for _, set := range Sets {
		if err := fileutil.Truncate(w.Path(set)); err != nil {
			return faults.Wrap(faults.ErrIO, "split", "reset "+set.FileName(), "", err)
		}
	}
	return nil
}

// WriteAll replaces the three lists with the partition.
func (w ListWriter) WriteAll(p Partition) error {
	if err := w.ensureDir(); err != nil {
		return err
	}
	for _, set := range Sets {
		if err := fileutil.WriteLines(w.Path(set), p.IDs(set)); err != nil {
			return faults.Wrap(faults.ErrIO, "split", "write "+set.FileName(), "", err)
		}
	}
	return nil
}

func (w ListWriter) ensureDir() error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return faults.Wrap(faults.ErrIO, "split", "create split directory", w.Dir, err)
	}
	return nil
}
