package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays fields tagged with `env:"..."` using the given
// environment (see env.ToMap). Unset or empty variables leave the current
// value untouched. A malformed value, such as a bad duration, panics like a
// malformed JSON file does.
func parseEnv(config *Config, environ map[string]string) {
	if err := env.ParseWithOptions(config, env.Options{Environment: environ}); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
