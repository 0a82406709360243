package app

import (
	"errors"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	AssetRoot    string // prefix every asset path is resolved against
	ManifestPath string // .hcl preload manifest file or directory, optional

	LogFormat   string
	LogLevel    string
	StatsPort   int // HTTP diagnostics server port, 0 disables
	WorkerCount int // concurrent loads during preload
}

// NewConfig validates and normalizes a Config. The asset root always ends
// with a path separator because path resolution is plain concatenation.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.AssetRoot == "" {
		return nil, errors.New("AssetRoot is a required configuration field and cannot be empty")
	}
	if !strings.HasSuffix(cfg.AssetRoot, "/") {
		cfg.AssetRoot += "/"
	}
	if cfg.WorkerCount <= 0 {
		return nil, errors.New("WorkerCount must be positive")
	}

	return &cfg, nil
}
