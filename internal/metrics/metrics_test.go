package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observe(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.Observe("copy", time.Now(), nil)
	rec.Observe("copy", time.Now(), nil)
	rec.Observe("copy", time.Now(), errors.New("boom"))
	rec.Observe("delete", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.OpsTotal.WithLabelValues("copy", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.OpsTotal.WithLabelValues("copy", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.OpsTotal.WithLabelValues("delete", StatusOK)))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.OpDuration))
}

func TestRecorder_AddCopied(t *testing.T) {
	t.Parallel()

	rec, err := NewRecorder(prometheus.NewRegistry())
	require.NoError(t, err)

	rec.AddCopied(10)
	rec.AddCopied(0)
	rec.AddCopied(-4)
	rec.AddCopied(5)

	assert.Equal(t, 15.0, testutil.ToFloat64(rec.BytesCopied))
}

func TestNewRecorder_ReusesRegistered(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	second.Observe("touch", time.Now(), nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.OpsTotal.WithLabelValues("touch", StatusOK)),
		"second recorder must share collectors with the first")
}

func TestRecorder_NilSafe(t *testing.T) {
	t.Parallel()

	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.Observe("touch", time.Now(), nil)
		rec.AddCopied(1)
	})
}
