package extractor

import "time"

const (
	DefaultUserAgent = "Mozilla/5.0"
	DefaultTimeout   = 30 * time.Second
	// DefaultMaxBodyBytes caps how much of a response body is read
	DefaultMaxBodyBytes = 64 << 20
)

// Config holds common configuration for extractors
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	RequestDelay time.Duration // minimum spacing between requests to one host
	MaxBodyBytes int64
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}
