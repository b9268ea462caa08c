// Package instance records the running process in a lockfile so a second
// ordiaa sharing the same store can warn that its writes will race.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/ordiaa/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Holder describes the process named in a lockfile.
type Holder struct {
	PID        int
	Executable string
	Since      time.Time
}

// Lock is this process's claim on the lockfile.
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile location in dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire writes the lockfile in dir. When another live ordiaa already holds
// it, that holder is returned alongside the lock; the caller decides whether
// to warn. A stale lockfile is overwritten.
func Acquire(dir string) (*Lock, *Holder, error) {
	path := Path(dir)
	other, err := Check(path)
	if err != nil {
		return nil, nil, err
	}

	if other != nil {
		// Leave the first instance's claim in place
		return &Lock{path: path, pid: -1}, other, nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	pid := getpidFunc()
	exe := constants.AppName
	if p, err := findProcessFunc(pid); err == nil && p != nil {
		exe = p.Executable()
	}
	content := fmt.Sprintf("%d|%s|%d", pid, exe, time.Now().Unix())
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil, nil
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil || l.pid < 0 {
		return nil
	}
	holder, err := readLockfile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if holder.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Check returns the live ordiaa process holding path, or nil when the file is
// missing, malformed, stale or names this very process.
func Check(path string) (*Holder, error) {
	holder, err := readLockfile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, errMalformed) {
			return nil, nil
		}
		return nil, err
	}
	if holder.PID == getpidFunc() {
		return nil, nil
	}

	process, err := findProcessFunc(holder.PID)
	if err != nil || process == nil {
		return nil, nil
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		// PID reused by something else
		return nil, nil
	}
	holder.Executable = process.Executable()
	return &holder, nil
}

var errMalformed = errors.New("lockfile is malformed")

func readLockfile(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Holder{}, errMalformed
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errMalformed
	}
	since, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Holder{}, errMalformed
	}
	return Holder{PID: pid, Executable: parts[1], Since: time.Unix(since, 0)}, nil
}
