package filesystem

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/codec"
	"github.com/brettbedarf/nativefs/config"
	"github.com/brettbedarf/nativefs/internal/locks"
	"github.com/brettbedarf/nativefs/internal/metrics"
	"github.com/brettbedarf/nativefs/internal/util"
)

func createTestConfig() *config.Config {
	return config.NewDefaultConfig()
}

// newTestFs returns a facade with a private lock registry so tests can
// assert that every lock was released
func newTestFs(t *testing.T, opts ...Option) (*Fs, *locks.Registry) {
	t.Helper()
	reg := locks.NewRegistry()
	opts = append([]Option{WithLocks(reg)}, opts...)
	return New(createTestConfig(), opts...), reg
}

// writeTree creates files (relative path -> content) under root
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("NilConfig", func(t *testing.T) {
		fs := New(nil)
		assert.Equal(t, *config.NewDefaultConfig(), fs.Config())
		assert.Same(t, locks.Default(), fs.locks)
		assert.Nil(t, fs.metrics)
	})

	t.Run("Options", func(t *testing.T) {
		lockReg := locks.NewRegistry()
		codecs := codec.NewRegistry()
		fs := New(createTestConfig(), WithLocks(lockReg), WithCodecs(codecs), WithMetrics(prometheus.NewRegistry()))

		assert.Same(t, lockReg, fs.locks)
		assert.Same(t, codecs, fs.codecs)
		assert.NotNil(t, fs.metrics)
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	assert.Same(t, Default(), Default())
	assert.Equal(t, *config.NewDefaultConfig(), Default().Config())
}

func TestFs_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	fs, _ := newTestFs(t, WithMetrics(reg))
	dir := t.TempDir()

	require.NoError(t, fs.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), false))
	_, err := fs.ReadFile(filepath.Join(dir, "missing.txt"), false)
	require.Error(t, err)
	require.NoError(t, fs.Copy(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"), false))

	ops := fs.metrics.OpsTotal
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues(opWrite, metrics.StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues(opRead, metrics.StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues(opCopy, metrics.StatusOK)))
	assert.Equal(t, 5.0, testutil.ToFloat64(fs.metrics.BytesCopied))
}

func TestFs_OpError(t *testing.T) {
	t.Parallel()

	fs, _ := newTestFs(t)
	missing := filepath.Join(t.TempDir(), "missing")

	err := fs.Delete(missing, false)
	require.Error(t, err)

	var opErr *nativefs.OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, opDelete, opErr.Op)
	assert.Equal(t, missing, opErr.Path)
	assert.ErrorIs(t, err, nativefs.ErrNotExist)
}

func TestFs_LoggerLevel(t *testing.T) {
	t.Parallel()

	t.Run("DefaultIsQuiet", func(t *testing.T) {
		fs := New(nil)
		assert.Equal(t, zerolog.InfoLevel, fs.logger.GetLevel())

		var buf bytes.Buffer
		fs.logger = fs.logger.Output(&buf)
		dir := t.TempDir()
		require.NoError(t, fs.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), false))
		require.Error(t, fs.Delete(filepath.Join(dir, "missing"), false))
		assert.Empty(t, buf.String())
	})

	t.Run("DebugLogsFailures", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.LogLvl = util.DebugLevel
		fs := New(cfg)
		assert.Equal(t, zerolog.DebugLevel, fs.logger.GetLevel())

		var buf bytes.Buffer
		fs.logger = fs.logger.Output(&buf)
		require.Error(t, fs.Delete(filepath.Join(t.TempDir(), "missing"), false))
		assert.Contains(t, buf.String(), "Operation failed")
		assert.Contains(t, buf.String(), `"op":"delete"`)
	})
}

func TestTouch(t *testing.T) {
	t.Parallel()

	fs, _ := newTestFs(t)
	dir := t.TempDir()

	t.Run("CreatesMissing", func(t *testing.T) {
		p := filepath.Join(dir, "new.txt")
		require.NoError(t, fs.Touch(p, time.Time{}))
		assert.True(t, fs.IsFile(p))
		assert.Equal(t, int64(0), fs.Size(p))
	})

	t.Run("SetsTime", func(t *testing.T) {
		p := filepath.Join(dir, "stamp.txt")
		writeTree(t, dir, map[string]string{"stamp.txt": "keep"})
		when := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

		require.NoError(t, fs.Touch(p, when))

		mtime, err := fs.Mtime(p)
		require.NoError(t, err)
		assert.Equal(t, when.Unix(), mtime)
		atime, err := fs.Atime(p)
		require.NoError(t, err)
		assert.Equal(t, when.Unix(), atime)
		assert.Equal(t, "keep", readString(t, p), "touch must not modify content")
	})

	t.Run("MissingParent", func(t *testing.T) {
		err := fs.Touch(filepath.Join(dir, "nope", "x.txt"), time.Time{})
		assert.ErrorIs(t, err, nativefs.ErrNotExist)
	})
}
