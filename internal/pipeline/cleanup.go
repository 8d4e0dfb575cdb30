package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"

	"cassprep/internal/fileutil"
	"cassprep/internal/logging"
)

// CleanupResult lists the leftover temp files removed from a destination.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its removal error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStaleTemps removes temp files left in dir by an interrupted atomic
// write. Callers must hold the destination lock.
func CleanStaleTemps(dir string, logger *slog.Logger) CleanupResult {
	var result CleanupResult

	matches, err := filepath.Glob(filepath.Join(dir, fileutil.TempPattern))
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		return result
	}

	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale temp file", "temp_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check output_dir permissions"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale temp file",
				logging.String("path", path),
				logging.String(logging.FieldEventType, "temp_cleanup"),
			)
		}
	}

	return result
}
