// Package filesystem implements [nativefs.Facade] over the host filesystem.
package filesystem

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/codec"
	"github.com/brettbedarf/nativefs/config"
	"github.com/brettbedarf/nativefs/internal/locks"
	"github.com/brettbedarf/nativefs/internal/metrics"
	"github.com/brettbedarf/nativefs/internal/util"
)

// Operation names used for errors, logs and metric labels
const (
	opTouch       = "touch"
	opCreateFile  = "create_file"
	opCreateDir   = "create_dir"
	opRead        = "read"
	opReadLines   = "read_lines"
	opWrite       = "write"
	opAppend      = "append"
	opPrepend     = "prepend"
	opWriteAtomic = "write_atomic"
	opListDir     = "list_dir"
	opHash        = "hash"
	opRename      = "rename"
	opDelete      = "delete"
	opCopy        = "copy"
	opMove        = "move"
	opMimetype    = "mimetype"
	opChmod       = "chmod"
	opType        = "type"
	opStat        = "stat"
	opExport      = "export"
	opImport      = "import"
	opFind        = "find"
)

var _ nativefs.Facade = (*Fs)(nil)

// Fs is the filesystem facade. It holds only immutable configuration and
// shared collaborators, so one value can be used from many goroutines.
type Fs struct {
	cfg     *config.Config
	codecs  *codec.Registry
	locks   *locks.Registry
	metrics *metrics.Recorder
	logger  zerolog.Logger
}

// Option customizes an [Fs] built by [New]
type Option func(*Fs)

// WithMetrics records operation metrics on reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(fs *Fs) {
		rec, err := metrics.NewRecorder(reg)
		if err != nil {
			fs.logger.Warn().Err(err).Msg("Failed to register metrics, continuing without")
			return
		}
		fs.metrics = rec
	}
}

// WithCodecs replaces the built-in codec registry used by Export and Import
func WithCodecs(reg *codec.Registry) Option {
	return func(fs *Fs) {
		fs.codecs = reg
	}
}

// WithLocks replaces the process wide lock registry
func WithLocks(reg *locks.Registry) Option {
	return func(fs *Fs) {
		fs.locks = reg
	}
}

// New creates a facade. A nil cfg uses [config.NewDefaultConfig]. The
// facade logs through its own component logger capped at cfg.LogLvl.
func New(cfg *config.Config, opts ...Option) *Fs {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	fs := &Fs{
		cfg:    cfg,
		codecs: codec.NewDefaultRegistry(),
		locks:  locks.Default(),
		logger: util.GetLogger("filesystem").Level(util.ZerologLevel(cfg.LogLvl)),
	}
	for _, opt := range opts {
		opt(fs)
	}
	if cfg.Metrics && fs.metrics == nil {
		WithMetrics(prometheus.DefaultRegisterer)(fs)
	}
	return fs
}

var defaultFs = sync.OnceValue(func() *Fs {
	return New(config.NewDefaultConfig())
})

// Default returns a lazily built process wide facade using default config
func Default() *Fs {
	return defaultFs()
}

// Config returns the configuration the facade was built with
func (fs *Fs) Config() config.Config {
	return *fs.cfg
}

// track is deferred by every public operation with a pointer to its named
// error result. It records metrics and logs failures at debug.
func (fs *Fs) track(op, path string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	fs.metrics.Observe(op, start, err)

	if err != nil {
		fs.logger.Debug().Err(err).Str("op", op).Str("path", path).Msg("Operation failed")
		return
	}
	fs.logger.Trace().Str("op", op).Str("path", path).Dur("took", time.Since(start)).Msg("Operation done")
}
