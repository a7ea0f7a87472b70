package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/ordo/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv loads the dotenv file named by -env (./.env by default) and
// then overlays Config with whichever variables are set.
func parseEnv(cfg *Config) {
	path := flagx.EnvFileFlag()
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
