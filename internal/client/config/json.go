package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ordo/internal/flagx"
	"github.com/dmitrijs2005/ordo/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so they can be strings like "3s" or integer
// nanoseconds. Absent keys leave the current value untouched.
type JsonConfig struct {
	Backend            string          `json:"backend"`
	DatabasePath       string          `json:"database_path"`
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	APIKey             string          `json:"api_key"`
	ImageModel         string          `json:"image_model"`
	GenerationEndpoint string          `json:"generation_endpoint"`
	GenerationTimeout  *timex.Duration `json:"generation_timeout"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	SplashDelay        *timex.Duration `json:"splash_delay"`
	CameraSource       string          `json:"camera_source"`
	LogLevel           string          `json:"log_level"`
	OTelEndpoint       string          `json:"otel_endpoint"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing is loaded. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.APIKey, jc.APIKey)
	setString(&cfg.ImageModel, jc.ImageModel)
	setString(&cfg.GenerationEndpoint, jc.GenerationEndpoint)
	setString(&cfg.CameraSource, jc.CameraSource)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.OTelEndpoint, jc.OTelEndpoint)

	if jc.GenerationTimeout != nil {
		cfg.GenerationTimeout = jc.GenerationTimeout.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SplashDelay != nil {
		cfg.SplashDelay = jc.SplashDelay.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
