package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultEndpoint        = "http://127.0.0.1:5000/upload"
	DefaultListenAddr      = "127.0.0.1:3000"
	DefaultShutdownTimeout = 15 * time.Second
)

// Config holds the process-wide settings of the upload client.
type Config struct {
	// Endpoint is the recognition service URL that receives the multipart upload.
	Endpoint        string
	ListenAddr      string
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Endpoint:        getEnv("RECOGNIZER_ENDPOINT", DefaultEndpoint),
		ListenAddr:      getEnv("LISTEN_ADDR", DefaultListenAddr),
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	if raw := os.Getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", raw, err)
		}
		cfg.ShutdownTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the endpoint is an absolute http(s) URL.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid RECOGNIZER_ENDPOINT %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid RECOGNIZER_ENDPOINT %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid RECOGNIZER_ENDPOINT %q: missing host", c.Endpoint)
	}
	if c.ListenAddr == "" {
		return errors.New("LISTEN_ADDR must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
