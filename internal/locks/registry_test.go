package locks

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestAcquire_ReleaseRemovesEntry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	path := filepath.Join(t.TempDir(), "a.txt")
	f := openTemp(t, path)

	h, err := reg.Acquire(f, Exclusive)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Held())
	assert.Equal(t, Exclusive, h.Mode())
	assert.True(t, filepath.IsAbs(h.Path()))

	require.NoError(t, h.Release())
	assert.Equal(t, 0, reg.Held())

	// second release is a no-op
	require.NoError(t, h.Release())
	assert.Equal(t, 0, reg.Held())
}

func TestAcquire_SharedHoldersCoexist(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	path := filepath.Join(t.TempDir(), "shared.txt")
	f1 := openTemp(t, path)
	f2 := openTemp(t, path)

	h1, err := reg.Acquire(f1, Shared)
	require.NoError(t, err)

	done := make(chan *Handle, 1)
	go func() {
		h2, err := reg.Acquire(f2, Shared)
		assert.NoError(t, err)
		done <- h2
	}()

	select {
	case h2 := <-done:
		require.NotNil(t, h2)
		assert.Equal(t, 1, reg.Held(), "both holders share one entry")
		require.NoError(t, h2.Release())
	case <-time.After(5 * time.Second):
		t.Fatal("shared lock blocked behind another shared lock")
	}
	require.NoError(t, h1.Release())
	assert.Equal(t, 0, reg.Held())
}

func TestAcquire_ExclusiveSerializes(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	path := filepath.Join(t.TempDir(), "counter.txt")

	const workers = 8
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
			if !assert.NoError(t, err) {
				return
			}
			defer f.Close()

			h, err := reg.Acquire(f, Exclusive)
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			for {
				cur := maxInside.Load()
				if n <= cur || maxInside.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
			assert.NoError(t, h.Release())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load(), "exclusive holders must never overlap")
	assert.Equal(t, 0, reg.Held())
}

func TestAcquire_ExclusiveWaitsForShared(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	path := filepath.Join(t.TempDir(), "rw.txt")
	reader := openTemp(t, path)
	writer := openTemp(t, path)

	rh, err := reg.Acquire(reader, Shared)
	require.NoError(t, err)

	acquired := make(chan *Handle, 1)
	go func() {
		wh, err := reg.Acquire(writer, Exclusive)
		assert.NoError(t, err)
		acquired <- wh
	}()

	select {
	case <-acquired:
		t.Fatal("exclusive lock granted while shared lock held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, rh.Release())
	select {
	case wh := <-acquired:
		require.NoError(t, wh.Release())
	case <-time.After(5 * time.Second):
		t.Fatal("exclusive lock never granted")
	}
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "shared", Shared.String())
	assert.Equal(t, "exclusive", Exclusive.String())
}
