// Package locks provides advisory file locking shared between goroutines of
// this process and other processes on the host.
//
// A lock is taken in two layers: a per-path [sync.RWMutex] that serializes
// goroutines, then flock(2) on the open handle for cross-process exclusion.
// On platforms without flock only the in-process layer applies.
package locks

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/nativefs/internal/util"
)

// Mode selects shared (reader) or exclusive (writer) locking
type Mode int

const (
	Shared Mode = iota
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "exclusive"
	}
	return "shared"
}

type entry struct {
	mu   sync.RWMutex
	refs int // only touched inside xsync Compute
}

// Registry tracks the in-process lock for every path currently held.
// Entries are removed when their last holder releases.
type Registry struct {
	entries *xsync.Map[string, *entry]
}

func NewRegistry() *Registry {
	return &Registry{entries: xsync.NewMap[string, *entry]()}
}

var defaultRegistry = NewRegistry()

// Default returns the process wide registry
func Default() *Registry {
	return defaultRegistry
}

// Held reports how many paths currently have at least one holder or waiter
func (r *Registry) Held() int {
	return r.entries.Size()
}

// Handle is an acquired lock. Release unwinds both layers in reverse order.
//
// NOTE: Handle is not thread-safe; release it from the goroutine that acquired it.
type Handle struct {
	path     string
	mode     Mode
	closeFns []func() error
	released bool
}

func (h *Handle) addClose(fn func() error) {
	h.closeFns = append(h.closeFns, fn)
}

// Path returns the key the lock was taken on
func (h *Handle) Path() string {
	return h.path
}

func (h *Handle) Mode() Mode {
	return h.mode
}

// Release drops the lock. Calling it more than once is a no-op.
func (h *Handle) Release() error {
	if h.released {
		return nil
	}
	h.released = true
	var firstErr error
	for i := len(h.closeFns) - 1; i >= 0; i-- {
		if err := h.closeFns[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Acquire blocks until f is locked in the requested mode.
func (r *Registry) Acquire(f *os.File, mode Mode) (*Handle, error) {
	key := lockKey(f.Name())
	h := &Handle{path: key, mode: mode}
	logger := util.GetLogger("locks")

	e := r.ref(key)
	h.addClose(func() error {
		r.unref(key)
		return nil
	})

	if mode == Exclusive {
		e.mu.Lock()
		h.addClose(func() error { e.mu.Unlock(); return nil })
	} else {
		e.mu.RLock()
		h.addClose(func() error { e.mu.RUnlock(); return nil })
	}

	if err := flock(f, mode); err != nil {
		_ = h.Release()
		return nil, err
	}
	h.addClose(func() error { return funlock(f) })

	logger.Trace().Str("path", key).Stringer("mode", mode).Msg("lock acquired")
	return h, nil
}

func (r *Registry) ref(key string) *entry {
	e, _ := r.entries.Compute(key, func(old *entry, loaded bool) (*entry, xsync.ComputeOp) {
		if !loaded {
			old = &entry{}
		}
		old.refs++
		return old, xsync.UpdateOp
	})
	return e
}

func (r *Registry) unref(key string) {
	r.entries.Compute(key, func(old *entry, loaded bool) (*entry, xsync.ComputeOp) {
		if !loaded {
			return old, xsync.CancelOp
		}
		old.refs--
		if old.refs <= 0 {
			return old, xsync.DeleteOp
		}
		return old, xsync.UpdateOp
	})
}

func lockKey(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return filepath.Clean(name)
}
