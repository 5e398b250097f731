package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl         = util.InfoLevel
	DefaultFileMode       = nativefs.ModeFilePublic
	DefaultDirMode        = nativefs.ModeDirPublic
	DefaultHashType       = nativefs.HashMD5
	DefaultStrictCopy     = false
	DefaultExportFormat   = nativefs.JSONFormat
	DefaultFollowSymlinks = false
	DefaultMetrics        = false
)

// EnvPrefix is prepended to every environment variable read by [LoadEnvOverride]
const EnvPrefix = "NATIVEFS"

// Verbosity levels accepted by overrides and the CLI, 1 (error) to 5 (trace)
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Config contains runtime configuration values for the filesystem facade.
type Config struct {
	LogLvl         util.LogLevel         // Internal log level (Default Info)
	FileMode       os.FileMode           // Mode for CreateFile when none is given (Default 0644)
	DirMode        os.FileMode           // Mode for CreateDir when none is given (Default 0755)
	HashType       nativefs.HashType     // Algorithm used when callers do not pick one (Default md5)
	StrictCopy     bool                  // Verify copies by content hash instead of total size (Default false)
	ExportFormat   nativefs.ExportFormat // Format used by the CLI when exporting to stdout (Default json)
	FollowSymlinks bool                  // Follow symlinked directories in Find (Default false)
	Metrics        bool                  // Register operation metrics on the default prometheus registry (Default false)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
//
// Modes are octal strings such as "0640".
type ConfigOverride struct {
	LogLvl         *int    `yaml:"verbose,omitempty" json:"verbose,omitempty" envconfig:"VERBOSE"`
	FileMode       *string `yaml:"file_mode,omitempty" json:"file_mode,omitempty" envconfig:"FILE_MODE"`
	DirMode        *string `yaml:"dir_mode,omitempty" json:"dir_mode,omitempty" envconfig:"DIR_MODE"`
	HashType       *string `yaml:"hash_type,omitempty" json:"hash_type,omitempty" envconfig:"HASH_TYPE"`
	StrictCopy     *bool   `yaml:"strict_copy,omitempty" json:"strict_copy,omitempty" envconfig:"STRICT_COPY"`
	ExportFormat   *string `yaml:"export_format,omitempty" json:"export_format,omitempty" envconfig:"EXPORT_FORMAT"`
	FollowSymlinks *bool   `yaml:"follow_symlinks,omitempty" json:"follow_symlinks,omitempty" envconfig:"FOLLOW_SYMLINKS"`
	Metrics        *bool   `yaml:"metrics,omitempty" json:"metrics,omitempty" envconfig:"METRICS"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:         DefaultLogLvl,
		FileMode:       DefaultFileMode,
		DirMode:        DefaultDirMode,
		HashType:       DefaultHashType,
		StrictCopy:     DefaultStrictCopy,
		ExportFormat:   DefaultExportFormat,
		FollowSymlinks: DefaultFollowSymlinks,
		Metrics:        DefaultMetrics,
	}
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override returns the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
// Unparsable modes are skipped; run [ConfigOverride.Validate] first to reject them.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerbosityToLogLevel(*override.LogLvl)
	}
	if override.FileMode != nil {
		if mode, err := ParseMode(*override.FileMode); err == nil {
			c.FileMode = mode
		}
	}
	if override.DirMode != nil {
		if mode, err := ParseMode(*override.DirMode); err == nil {
			c.DirMode = mode
		}
	}
	if override.HashType != nil {
		c.HashType = nativefs.HashType(strings.ToLower(*override.HashType))
	}
	if override.ExportFormat != nil {
		c.ExportFormat = nativefs.ExportFormat(strings.ToLower(*override.ExportFormat))
	}
	c.StrictCopy = util.ValueOrDefault(override.StrictCopy, c.StrictCopy)
	c.FollowSymlinks = util.ValueOrDefault(override.FollowSymlinks, c.FollowSymlinks)
	c.Metrics = util.ValueOrDefault(override.Metrics, c.Metrics)
}

// Validate reports override values that Merge would have to skip
func (o *ConfigOverride) Validate() error {
	if o.FileMode != nil {
		if _, err := ParseMode(*o.FileMode); err != nil {
			return fmt.Errorf("file_mode: %w", err)
		}
	}
	if o.DirMode != nil {
		if _, err := ParseMode(*o.DirMode); err != nil {
			return fmt.Errorf("dir_mode: %w", err)
		}
	}
	return nil
}

// VerbosityToLogLevel maps CLI verbosity 1 (error) .. 5 (trace) onto
// [util.LogLevel], clamping out of range values.
func VerbosityToLogLevel(verbose int) util.LogLevel {
	verbose = min(max(verbose, ErrorVerbose), TraceVerbose)
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return logLvls[verbose-1]
}

// ParseMode parses an octal permission string ("644", "0644", "0o644", "4755")
// into an [os.FileMode], translating setuid/setgid/sticky bits.
func ParseMode(s string) (os.FileMode, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0o"), "0O")
	bits, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q: %w", s, nativefs.ErrInvalidArgument)
	}
	if bits > 0o7777 {
		return 0, fmt.Errorf("mode %q out of range: %w", s, nativefs.ErrInvalidArgument)
	}
	return ModeFromBits(uint32(bits)), nil
}

// ModeFromBits converts raw unix permission bits (as passed to chmod(2)) into
// an [os.FileMode].
func ModeFromBits(bits uint32) os.FileMode {
	mode := os.FileMode(bits & 0o777)
	if bits&0o4000 != 0 {
		mode |= os.ModeSetuid
	}
	if bits&0o2000 != 0 {
		mode |= os.ModeSetgid
	}
	if bits&0o1000 != 0 {
		mode |= os.ModeSticky
	}
	return mode
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	if err := override.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &override, nil
}

// LoadEnvOverride reads NATIVEFS_* environment variables into an override.
// Unset variables leave the matching field nil.
func LoadEnvOverride() (*ConfigOverride, error) {
	var override ConfigOverride
	if err := envconfig.Process(EnvPrefix, &override); err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}
	if err := override.Validate(); err != nil {
		return nil, fmt.Errorf("invalid env config: %w", err)
	}
	return &override, nil
}

// Load builds the runtime Config: defaults, then the optional file at path,
// then environment overrides.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		override, err := LoadConfigOverrideFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(override)
	}
	envOverride, err := LoadEnvOverride()
	if err != nil {
		return nil, err
	}
	cfg.Merge(envOverride)
	return cfg, nil
}
