// Package lock provides advisory per-release file locks so two
// releasewarrior processes never transition the same release at once.
package lock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

// Lock is a held advisory lock. Release it with Unlock.
type Lock struct {
	f    *os.File
	path string
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes an exclusive, non-blocking flock on <dir>/<name>.lock.
// It returns E_RELEASE_LOCKED when another process holds it.
func Acquire(dir, name string) (*Lock, error) {
	path := filepath.Join(dir, name+".lock")
	details := map[string]string{"lock": path, "release": name}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapWithDetails(errors.EInternal, "failed to create lock directory", err, details)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.WrapWithDetails(errors.EInternal, "failed to open lock file", err, details)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		holder := readHolder(f)
		_ = f.Close()
		if err == unix.EWOULDBLOCK {
			if holder != "" {
				details["pid"] = holder
			}
			return nil, errors.NewWithDetails(errors.EReleaseLocked,
				"another releasewarrior process is working on "+name, details)
		}
		return nil, errors.WrapWithDetails(errors.EInternal, "failed to lock release", err, details)
	}

	// Record the holder for diagnostics; failure here is harmless.
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &Lock{f: f, path: path}, nil
}

// Unlock releases the lock. The lock file is left in place; removing it
// would race with a process that has it open.
func (l *Lock) Unlock() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}

func readHolder(f *os.File) string {
	buf := make([]byte, 32)
	n, _ := f.ReadAt(buf, 0)
	return strings.TrimSpace(string(buf[:n]))
}
