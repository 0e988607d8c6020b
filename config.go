package stockroom

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultMaxEntities bounds an allocator built without WithMaxEntities.
const DefaultMaxEntities = 1024

// Config is the file form of the allocator options.
type Config struct {
	MaxEntities int    `yaml:"max_entities"`
	Alignment   int    `yaml:"alignment"`
	LogLevel    string `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{MaxEntities: DefaultMaxEntities}
}

// LoadConfig decodes YAML on top of DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxEntities <= 0 {
		return fmt.Errorf("max_entities must be positive, got %d", c.MaxEntities)
	}
	if c.Alignment < 0 || c.Alignment&(c.Alignment-1) != 0 {
		return fmt.Errorf("alignment must be zero or a power of two, got %d", c.Alignment)
	}
	return nil
}

// Options converts the config into allocator options. An empty or "off" log
// level keeps logging disabled.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts := []Option{WithMaxEntities(c.MaxEntities), WithAlignment(c.Alignment)}
	if c.LogLevel == "" || c.LogLevel == "off" {
		return opts, nil
	}
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return append(opts, WithLogger(logger)), nil
}

type options struct {
	maxEntities int
	alignment   int
	logger      *zap.Logger
}

// Option configures an Allocator or Buffer.
type Option func(*options)

func WithMaxEntities(n int) Option {
	return func(o *options) {
		o.maxEntities = n
	}
}

// WithAlignment makes pools of pointer-free component types byte aligned.
func WithAlignment(alignment int) Option {
	return func(o *options) {
		o.alignment = alignment
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(maxEntities int, opts ...Option) options {
	o := options{
		maxEntities: maxEntities,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxEntities < 0 {
		o.maxEntities = 0
	}
	if o.alignment < 0 || o.alignment&(o.alignment-1) != 0 {
		o.alignment = 0
	}
	return o
}
