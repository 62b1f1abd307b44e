package sector

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"astrogen/internal/logging"
	"astrogen/internal/services"
)

type buildLock struct {
	lock *flock.Flock
}

// acquireLock takes the per-sector build lock at path without waiting. A
// second build of the same sector fails with services.ErrBusy. The sector
// directory itself is only created once an emitter writes into it.
func acquireLock(path string) (*buildLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrEmission, "validate", "create lock directory", filepath.Dir(path), err)
	}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrEmission, "validate", "acquire build lock", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", services.ErrBusy, strings.TrimSuffix(filepath.Base(path), ".lock"))
	}
	return &buildLock{lock: lock}, nil
}

func (l *buildLock) release(logger *slog.Logger) {
	if l == nil || l.lock == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		logging.WarnWithContext(logger, "failed to release build lock", "build_lock_release_failed",
			logging.String("path", l.lock.Path()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next build of this sector may report busy"),
		)
	}
}
