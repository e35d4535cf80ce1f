// Package config provides the client configuration, merged from a YAML
// file, environment variables, and command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Options holds the configuration values for the client.
type Options struct {
	// BaseURL is the root URL of the waste-management backend.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds a single HTTP round trip.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// LogLevel selects the zap level: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Config is the path to the YAML config file.
	Config string `yaml:"-"`
}

// HTTPTimeout returns the request timeout as a duration.
func (o *Options) HTTPTimeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// defaults returns the built-in configuration.
func defaults() *Options {
	return &Options{
		BaseURL:  "http://localhost:8080",
		LogLevel: "info",
		Config:   "ecotrack.yaml",
	}
}

// Parse merges the config file, environment variables, and the given
// flag arguments, in increasing precedence, and returns the result.
func Parse(args []string) (*Options, error) {
	options := defaults()

	fs := flag.NewFlagSet("ecotrack", flag.ContinueOnError)
	fs.StringVar(&options.Config, "config", options.Config, "path to config file")
	fs.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
	baseURL := fs.String("url", "", "backend base URL")
	timeout := fs.Int("timeout", 0, "HTTP request timeout in seconds")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if path := os.Getenv("ECOTRACK_CONFIG"); path != "" {
		options.Config = path
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if v := os.Getenv("ECOTRACK_BASE_URL"); v != "" {
		options.BaseURL = v
	}
	if v := os.Getenv("ECOTRACK_LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}

	if *baseURL != "" {
		options.BaseURL = *baseURL
	}
	if *timeout > 0 {
		options.TimeoutSeconds = *timeout
	}
	if *logLevel != "" {
		options.LogLevel = *logLevel
	}

	return options, nil
}
