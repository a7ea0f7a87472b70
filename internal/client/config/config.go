package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

var ErrInvalidBackend = errors.New("backend must be local or remote")

// Config holds runtime settings for the Ordo terminal client.
//
// Fields:
//   - Backend: "local" keeps everything in DatabasePath; "remote" talks to
//     the account server at ServerEndpointAddr and uses DatabasePath only
//     for the session cache.
//   - APIKey, ImageModel, GenerationEndpoint, GenerationTimeout: image
//     generation service.
//   - RequestTimeout: per-call deadline for remote calls.
//   - SplashDelay: how long the splash screen is shown.
//   - CameraSource: image file or directory read by the file camera.
type Config struct {
	Backend            string        `env:"ORDO_BACKEND"`
	DatabasePath       string        `env:"ORDO_DB_PATH"`
	ServerEndpointAddr string        `env:"ORDO_SERVER_ADDR"`
	APIKey             string        `env:"GEMINI_API_KEY"`
	ImageModel         string        `env:"ORDO_IMAGE_MODEL"`
	GenerationEndpoint string        `env:"ORDO_GENERATION_ENDPOINT"`
	GenerationTimeout  time.Duration `env:"ORDO_GENERATION_TIMEOUT"`
	RequestTimeout     time.Duration `env:"ORDO_REQUEST_TIMEOUT"`
	SplashDelay        time.Duration `env:"ORDO_SPLASH_DELAY"`
	CameraSource       string        `env:"ORDO_CAMERA_SOURCE"`
	LogLevel           string        `env:"ORDO_LOG_LEVEL"`
	OTelEndpoint       string        `env:"ORDO_OTEL_ENDPOINT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendLocal
	c.DatabasePath = "ordo.db"
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ImageModel = "gemini-2.5-flash-image"
	c.GenerationEndpoint = "https://generativelanguage.googleapis.com"
	c.GenerationTimeout = 90 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.SplashDelay = 2 * time.Second
	c.CameraSource = "."
	c.LogLevel = "warn"
}

// Validate reports settings the client cannot start with. A missing API key
// is not an error here; the generation client reports it when used.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendRemote:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}
	if c.Backend == BackendRemote && c.ServerEndpointAddr == "" {
		return errors.New("remote backend needs a server address")
	}
	if c.DatabasePath == "" {
		return errors.New("database path is empty")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
