package pipeline

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"cassprep/internal/faults"
)

// LockFileName is created in every destination directory while a pass writes
// to it.
const LockFileName = ".cassprep.lock"

// acquireLock creates dir and takes a non-blocking lock on it.
func acquireLock(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrIO, "pipeline", "create destination", dir, err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrIO, "pipeline", "acquire lock", lock.Path(), err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrLocked, "pipeline", "acquire lock",
			"another cassprep run is writing to "+dir, nil)
	}
	return lock, nil
}
