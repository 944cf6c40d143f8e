package client

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "PATIENTCTL"

// Config is read from PATIENTCTL_API_URL and PATIENTCTL_TIMEOUT.
type Config struct {
	APIURL  string        `envconfig:"API_URL" default:"http://localhost:5000/api"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load client config: %w", err)
	}
	return cfg, nil
}
