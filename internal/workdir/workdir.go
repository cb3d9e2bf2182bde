package workdir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"rpminspect/internal/logging"
)

// DefaultMode is used for the workdir and every directory created below it.
const DefaultMode fs.FileMode = 0o755

// LockName is the lock file kept in the workdir root while runs use it.
const LockName = ".rpminspect.lock"

const (
	lockRetryDelay = 50 * time.Millisecond
	lockAttempts   = 3
)

var (
	ErrCreateFailed = errors.New("unable to create directory")
	ErrInUse        = errors.New("workdir is being removed by another run")
)

// Lease is one run's claim on a workdir. Runs share the root through a
// shared flock; each run owns only its own work subdirectory.
type Lease struct {
	Path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Acquire creates path (idempotently) with mode, checks that it is usable,
// and takes a shared lock on it.
func Acquire(ctx context.Context, path string, mode fs.FileMode, logger *slog.Logger) (*Lease, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty workdir path", ErrCreateFailed)
	}
	if mode == 0 {
		mode = DefaultMode
	}
	logger = logging.NewComponentLogger(logger, "workdir")

	lockPath := filepath.Join(path, LockName)
	for attempt := 1; ; attempt++ {
		if err := os.MkdirAll(path, mode); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrCreateFailed, path, err)
		}
		if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrCreateFailed, path, err)
		}

		lock := flock.New(lockPath)
		ok, err := lock.TryRLockContext(ctx, lockRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("%w %s: lock: %w", ErrCreateFailed, path, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInUse, path)
		}
		// A run releasing the root may have unlinked the lock file while we
		// waited on it.
		if _, err := os.Stat(lockPath); err == nil {
			logger.Debug("workdir ready",
				logging.String("path", path),
				logging.String(logging.FieldEventType, "workdir_ready"),
			)
			logRetained(logger, path)
			return &Lease{Path: path, lock: lock, logger: logger}, nil
		}
		_ = lock.Close()
		if attempt >= lockAttempts {
			return nil, fmt.Errorf("%w: %s", ErrInUse, path)
		}
	}
}

// ReleaseResult contains the outcome of releasing a lease.
type ReleaseResult struct {
	Kept    string
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its removal error.
type CleanupError struct {
	Path  string
	Error error
}

// Release drops the lease. Unless keep is set, worksubdir is removed and the
// root follows when no other run holds it and nothing else is left in it.
// Failures are logged and reported, never returned as errors.
func (l *Lease) Release(keep bool, worksubdir string) ReleaseResult {
	var result ReleaseResult
	if l == nil {
		return result
	}

	if keep {
		result.Kept = worksubdir
		if result.Kept == "" {
			result.Kept = l.Path
		}
		l.unlock(&result)
		l.logger.Info("keeping working directory",
			logging.String("path", result.Kept),
			logging.String(logging.FieldEventType, "workdir_kept"),
		)
		return result
	}

	if worksubdir != "" && worksubdir != l.Path && isWithin(l.Path, worksubdir) {
		l.remove(&result, worksubdir, os.RemoveAll)
	}

	exclusive, err := l.lock.TryLock()
	if err != nil || !exclusive {
		l.unlock(&result)
		return result
	}
	l.remove(&result, filepath.Join(l.Path, LockName), os.Remove)
	if err := os.Remove(l.Path); err == nil {
		result.Removed = append(result.Removed, l.Path)
	} else if !errors.Is(err, fs.ErrNotExist) && !isNotEmpty(err) {
		result.Errors = append(result.Errors, CleanupError{Path: l.Path, Error: err})
		l.warn(l.Path, err)
	}
	l.unlock(&result)
	return result
}

func (l *Lease) remove(result *ReleaseResult, path string, fn func(string) error) {
	if err := fn(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
		l.warn(path, err)
		return
	}
	result.Removed = append(result.Removed, path)
	l.logger.Debug("removed",
		logging.String("path", path),
		logging.String(logging.FieldEventType, "workdir_cleanup"),
	)
}

func (l *Lease) unlock(result *ReleaseResult) {
	if err := l.lock.Close(); err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: l.lock.Path(), Error: err})
		l.warn(l.lock.Path(), err)
	}
}

func (l *Lease) warn(path string, err error) {
	logging.WarnWithContext(l.logger, "error removing directory", "workdir_cleanup_failed",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check workdir permissions"),
		logging.String(logging.FieldImpact, "disk space not reclaimed"),
	)
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

func isNotEmpty(err error) bool {
	return errors.Is(err, unix.ENOTEMPTY) || errors.Is(err, unix.EEXIST)
}

func logRetained(logger *slog.Logger, root string) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	runs, err := ListRuns(root)
	if err != nil {
		return
	}
	for _, run := range runs {
		logger.Debug("retained run directory",
			logging.String("path", run.Path),
			logging.Int64("size_bytes", run.Size),
			logging.Duration("age", time.Since(run.ModTime)),
		)
	}
}
