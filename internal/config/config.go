package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vango-react/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vango-react.yaml"

	// EnvPrefix prefixes environment variables that override the file,
	// such as VANGO_REACT_LOG_LEVEL or VANGO_REACT_TRACE_S3_BUCKET.
	EnvPrefix = "VANGO_REACT"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "localhost:7070"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "vango_react"
)

// Runtime names.
const (
	RuntimeSim = "sim"
	RuntimeJS  = "js"
)

// Trace sinks.
const (
	SinkNone = "none"
	SinkFile = "file"
	SinkS3   = "s3"
)

// Trace formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the complete vango-react.yaml configuration.
type Config struct {
	// Runtime selects the foreign runtime the CLI drives: "sim" or "js".
	Runtime string `mapstructure:"runtime" yaml:"runtime"`

	// Debug enables per-cell debug logging in the bridge.
	Debug bool `mapstructure:"debug" yaml:"debug"`

	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Inspect InspectConfig `mapstructure:"inspect" yaml:"inspect"`
	Trace   TraceConfig   `mapstructure:"trace" yaml:"trace"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a zap level name such as "debug" or "info".
	Level string `mapstructure:"level" yaml:"level"`

	// Development selects zap's development encoder.
	Development bool `mapstructure:"development" yaml:"development"`
}

// MetricsConfig configures the bridge's Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	Subsystem string `mapstructure:"subsystem" yaml:"subsystem,omitempty"`
}

// InspectConfig configures the HTTP inspector.
type InspectConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// TraceConfig configures where lifecycle traces are written.
type TraceConfig struct {
	// Sink is "none", "file" or "s3".
	Sink string `mapstructure:"sink" yaml:"sink"`

	// Format is "json" or "yaml".
	Format string `mapstructure:"format" yaml:"format"`

	// Dir is the directory of the file sink.
	Dir string `mapstructure:"dir" yaml:"dir"`

	S3 S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config configures the S3 trace sink.
type S3Config struct {
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
}

// New returns a configuration with defaults.
func New() *Config {
	return &Config{
		Runtime: RuntimeSim,
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
		Inspect: InspectConfig{
			Addr: DefaultInspectAddr,
		},
		Trace: TraceConfig{
			Sink:   SinkNone,
			Format: FormatJSON,
			Dir:    "traces",
			S3: S3Config{
				Prefix: "traces/",
				Region: "us-east-1",
			},
		},
	}
}

// newViper returns a viper instance holding the defaults of New, reading
// overrides from the environment.
func newViper() *viper.Viper {
	def := New()
	v := viper.New()

	v.SetDefault("runtime", def.Runtime)
	v.SetDefault("debug", def.Debug)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.development", def.Log.Development)

	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.namespace", def.Metrics.Namespace)
	v.SetDefault("metrics.subsystem", def.Metrics.Subsystem)

	v.SetDefault("inspect.addr", def.Inspect.Addr)

	v.SetDefault("trace.sink", def.Trace.Sink)
	v.SetDefault("trace.format", def.Trace.Format)
	v.SetDefault("trace.dir", def.Trace.Dir)
	v.SetDefault("trace.s3.bucket", def.Trace.S3.Bucket)
	v.SetDefault("trace.s3.prefix", def.Trace.S3.Prefix)
	v.SetDefault("trace.s3.region", def.Trace.S3.Region)
	v.SetDefault("trace.s3.endpoint", def.Trace.S3.Endpoint)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the specified directory. A directory
// without vango-react.yaml yields the defaults and environment overrides.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		return decode(newViper(), "")
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path. Any format
// viper supports is accepted; the extension selects it.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New("R040").
			WithDetail("No config file at " + path).
			WithSuggestion("Run 'vango-react config init' to write one with the defaults")
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.New("R040").
			WithDetail("Failed to parse " + filepath.Base(path)).
			Wrap(err)
	}
	return decode(v, path)
}

func decode(v *viper.Viper, path string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("R040").Wrap(err)
	}
	cfg.configPath = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveTo writes the configuration to path as YAML.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("R040").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R040").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from, or "" for
// defaults.
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.New("R041").
			WithDetail("log.level: " + err.Error())
	}
	switch c.Runtime {
	case RuntimeSim, RuntimeJS:
	default:
		return errors.New("R041").
			WithDetail("runtime must be " + RuntimeSim + " or " + RuntimeJS + ", got " + c.Runtime)
	}
	switch c.Trace.Format {
	case FormatJSON, FormatYAML:
	default:
		return errors.New("R041").
			WithDetail("trace.format must be json or yaml, got " + c.Trace.Format)
	}
	switch c.Trace.Sink {
	case SinkNone:
	case SinkFile:
		if c.Trace.Dir == "" {
			return errors.New("R041").WithDetail("trace.dir is required for the file sink")
		}
	case SinkS3:
		if c.Trace.S3.Bucket == "" {
			return errors.New("R041").WithDetail("trace.s3.bucket is required for the s3 sink")
		}
	default:
		return errors.New("R041").
			WithDetail("trace.sink must be none, file or s3, got " + c.Trace.Sink)
	}
	return nil
}

// Logger builds the logger described by c.Log.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.New("R041").Wrap(err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
