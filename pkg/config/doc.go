// Package config loads application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// dotenv files are read first (without overriding variables that are already
// set), then the environment is parsed into any struct using field tags.
//
// # Usage
//
//	type AppConfig struct {
//		Tenant tenant.EnvConfig
//		PG     pg.Config
//		Debug  bool `env:"DEBUG" envDefault:"false"`
//	}
//
//	cfg, err := config.Load[AppConfig]()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Optional behaviour is selected per call:
//
//	cfg, err := config.Load[AppConfig](
//		config.WithEnvFiles(".env.local"),
//		config.WithPrefix("TENANTD_"),
//	)
//
// The default ".env" in the working directory is read when present. Files
// passed to WithEnvFiles must exist.
//
// Load keeps no state between calls. The configuration is an explicit value
// owned by the caller and passed to whatever needs it.
//
// # Errors
//
//   - ErrParsingConfig – the environment did not match the struct tags.
//   - ErrLoadingEnvFile – a requested dotenv file could not be read.
//
// Both are joined with the underlying cause, so errors.Is works on either.
package config
