// Package api provides a Go client for the exam-preparation platform
// REST API: authentication, subjects, exams, progress tracking, and
// tutoring.
package api

import "time"

// Default client settings. The base URL points at a local development
// backend; deployments override it via configuration.
const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 30 * time.Second
)

// Config holds all configuration for the API client.
type Config struct {
	// BaseURL is the root of the REST API, without a trailing slash.
	BaseURL string

	// Timeout is the HTTP client timeout for each request.
	Timeout time.Duration
}

// DefaultConfig returns a Config with default settings.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// WithBaseURL returns a copy of the config with the specified base URL.
func (c Config) WithBaseURL(url string) Config {
	c.BaseURL = url
	return c
}

// WithTimeout returns a copy of the config with the specified timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}
