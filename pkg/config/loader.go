package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option configures a single Load call.
type Option func(*options)

type options struct {
	files    []string
	optional bool
	prefix   string
	required bool
}

// WithEnvFiles loads the given dotenv files before parsing. Missing files are
// an error, unlike the default ".env" which is only read when present.
// Variables already set in the process environment always win.
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		o.files = append(o.files, files...)
		o.optional = false
	}
}

// WithPrefix prepends prefix to every env key of the target struct.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithRequiredIfNoDefault marks every field without envDefault as required.
func WithRequiredIfNoDefault() Option {
	return func(o *options) {
		o.required = true
	}
}

// Load parses the environment into a new T.
//
// Example:
//
//	type DatabaseConfig struct {
//		URL      string `env:"DB_URL,required"`
//		MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
//	}
//
//	cfg, err := config.Load[DatabaseConfig]()
//	if err != nil {
//		// Handle error
//	}
//
// Nothing is cached: every call reads the environment again and the caller
// owns the returned value.
func Load[T any](opts ...Option) (T, error) {
	o := options{files: []string{".env"}, optional: true}
	for _, opt := range opts {
		opt(&o)
	}

	var cfg T
	if err := loadFiles(o); err != nil {
		return cfg, err
	}

	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:          o.prefix,
		RequiredIfNoDef: o.required,
	})
	if err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it in main for configuration the process cannot start without.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load %T: %v", cfg, err))
	}
	return cfg
}

func loadFiles(o options) error {
	if len(o.files) == 0 {
		return nil
	}
	err := godotenv.Load(o.files...)
	switch {
	case err == nil:
		return nil
	case o.optional && errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return errors.Join(ErrLoadingEnvFile, err)
	}
}
