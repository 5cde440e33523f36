package filesystem

import (
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	errUtils "github.com/cloudposse/monarch/errors"
	log "github.com/cloudposse/monarch/pkg/logger"
)

const (
	// LockFileName is created in a locked directory.
	LockFileName = ".monarch.lock"

	maxLockRetries = 50
	lockRetryDelay = 20 * time.Millisecond
)

// DirLock serializes writers of one output directory across processes.
type DirLock struct {
	lockPath string
}

// NewDirLock creates a lock for dir. The directory is not touched until the lock is taken.
func NewDirLock(dir string) *DirLock {
	return &DirLock{lockPath: filepath.Join(dir, LockFileName)}
}

// Path returns the lock file path.
func (l *DirLock) Path() string {
	return l.lockPath
}

// WithLock executes fn while holding an exclusive lock.
func (l *DirLock) WithLock(fn func() error) error {
	lock := flock.New(l.lockPath)

	var locked bool
	var err error

	for i := 0; i < maxLockRetries; i++ {
		locked, err = lock.TryLock()
		if err != nil {
			return errUtils.Build(errUtils.ErrLockOutputDir).
				WithCause("%s: %s", l.lockPath, err).
				Err()
		}
		if locked {
			break
		}
		time.Sleep(lockRetryDelay)
	}

	if !locked {
		return errUtils.Build(errUtils.ErrLockOutputDir).
			WithCause("%s is held by another process", l.lockPath).
			WithHint("Wait for the other monarch run to finish").
			Err()
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Trace("Failed to unlock output directory", "error", err, "path", l.lockPath)
		}
	}()

	return fn()
}
