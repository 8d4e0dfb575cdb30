package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"cassprep/internal/ledger"
)

// Access selects the permissions CheckDirectoryAccess requires.
type Access uint32

const (
	ReadOnly  Access = unix.R_OK | unix.X_OK
	ReadWrite Access = unix.R_OK | unix.W_OK | unix.X_OK
)

func (a Access) String() string {
	if a&unix.W_OK != 0 {
		return "read/write"
	}
	return "read"
}

// CheckDirectoryAccess verifies that the directory exists and grants access.
func CheckDirectoryAccess(name, path string, access Access) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path), missing: true}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, uint32(access)); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, access)}
}

// CheckLedger verifies the ledger can be opened at its current schema
// version. A ledger that does not exist yet passes when its directory is
// writable.
func CheckLedger(ctx context.Context, path string) Result {
	const name = "Run ledger"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		dir := CheckDirectoryAccess(name, filepath.Dir(path), ReadWrite)
		if !dir.Passed {
			return optionalDestination(dir)
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first run)", path)}
	}

	store, err := ledger.Open(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, 1)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if len(runs) == 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no runs yet)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (last run %s: %s)", path, runs[0].Command, runs[0].Status)}
}
