// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/mia-platform/fivetran-sync/internal/fivetran"
)

var (
	// ErrParsing reports failures that occur while decoding the configuration file or the environment.
	ErrParsing = errors.New("error parsing")
	// ErrMissingCredentials reports a configuration without api key or api secret.
	ErrMissingCredentials = errors.New("missing fivetran credentials")
	// ErrInvalidConfig reports a configuration with values that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the settings needed to reach the Fivetran API.
// Values read from the environment override the ones read from file.
type Config struct {
	APIKey    string    `yaml:"apiKey" env:"FIVETRAN_API_KEY"`
	APISecret string    `yaml:"apiSecret" env:"FIVETRAN_API_SECRET"`
	BaseURL   string    `yaml:"baseUrl" env:"FIVETRAN_BASE_URL"`
	Transport Transport `yaml:"transport"`
}

// Transport holds the http tuning knobs of the api client.
type Transport struct {
	Timeout           time.Duration `yaml:"timeout" env:"FIVETRAN_HTTP_TIMEOUT"`
	ProxyURL          string        `yaml:"proxyUrl" env:"FIVETRAN_HTTP_PROXY"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond" env:"FIVETRAN_REQUESTS_PER_SECOND"`
	Burst             int           `yaml:"burst" env:"FIVETRAN_REQUESTS_BURST"`
}

// Load reads the configuration file at path, if not empty, then applies the
// environment overrides and the defaults and validates the result.
func Load(path string) (*Config, error) {
	config := new(Config)
	if path != "" {
		if err := config.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("%w environment: %w", ErrParsing, err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) decodeFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = fivetran.DefaultBaseURL
	}

	if c.Transport.RequestsPerSecond > 0 && c.Transport.Burst < 1 {
		c.Transport.Burst = 1
	}
}

// Validate checks that the configuration can be used to build an api client.
func (c *Config) Validate() error {
	missingFields := []string{}
	if c.APIKey == "" {
		missingFields = append(missingFields, "apiKey")
	}
	if c.APISecret == "" {
		missingFields = append(missingFields, "apiSecret")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missingFields, ", "))
	}

	errorsList := []string{}
	if !isAbsoluteURL(c.BaseURL) {
		errorsList = append(errorsList, fmt.Sprintf("baseUrl %q is not an absolute url", c.BaseURL))
	}
	if c.Transport.ProxyURL != "" && !isAbsoluteURL(c.Transport.ProxyURL) {
		errorsList = append(errorsList, fmt.Sprintf("transport.proxyUrl %q is not an absolute url", c.Transport.ProxyURL))
	}
	if c.Transport.Timeout < 0 {
		errorsList = append(errorsList, "transport.timeout must not be negative")
	}
	if c.Transport.RequestsPerSecond < 0 {
		errorsList = append(errorsList, "transport.requestsPerSecond must not be negative")
	}
	if c.Transport.Burst < 0 {
		errorsList = append(errorsList, "transport.burst must not be negative")
	}

	if len(errorsList) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errorsList, "; "))
	}

	return nil
}

// ClientConfig returns the api client configuration described by c.
func (c *Config) ClientConfig() fivetran.ClientConfig {
	return fivetran.ClientConfig{
		BaseURL:   c.BaseURL,
		APIKey:    c.APIKey,
		APISecret: c.APISecret,
		Transport: fivetran.TransportOptions{
			Timeout:           c.Transport.Timeout,
			ProxyURL:          c.Transport.ProxyURL,
			RequestsPerSecond: c.Transport.RequestsPerSecond,
			Burst:             c.Transport.Burst,
		},
	}
}

func isAbsoluteURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}
