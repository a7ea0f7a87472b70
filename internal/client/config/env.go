package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/ordo/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A dotenv file named
// by -env, or ./.env when present, is loaded first; variables already set
// in the process environment win over the file.
func parseEnv(cfg *Config) {
	path := flagx.EnvFileFlag()
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	// Only variables that are set replace the current values.
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
