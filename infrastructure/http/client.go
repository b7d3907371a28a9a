// Package http builds the tuned outbound HTTP client used for crawling and
// third-party APIs.
package http

import (
	"net/http"
	"time"
)

// Defaults applied by NewClient for zero-valued fields.
const (
	DefaultTimeout               = 30 * time.Second
	DefaultMaxIdleConns          = 100
	DefaultMaxIdleConnsPerHost   = 10
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultResponseHeaderTimeout = 20 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
)

// ClientConfig configures NewClient.
type ClientConfig struct {
	Timeout               time.Duration
	MaxIdleConnsPerHost   int
	ResponseHeaderTimeout time.Duration
}

// NewClient returns an *http.Client with a pooled transport. A nil cfg uses
// the defaults.
func NewClient(cfg *ClientConfig) *http.Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	timeout := orDefault(cfg.Timeout, DefaultTimeout)
	headerTimeout := orDefault(cfg.ResponseHeaderTimeout, DefaultResponseHeaderTimeout)
	perHost := cfg.MaxIdleConnsPerHost
	if perHost == 0 {
		perHost = DefaultMaxIdleConnsPerHost
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   perHost,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		ResponseHeaderTimeout: headerTimeout,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ExpectContinueTimeout: time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return d
}
