package http_test

import (
	nethttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrahttp "github.com/ksnll/mithrilforge/infrastructure/http"
)

func TestNewClient_Defaults(t *testing.T) {
	c := infrahttp.NewClient(nil)

	assert.Equal(t, infrahttp.DefaultTimeout, c.Timeout)
	tr, ok := c.Transport.(*nethttp.Transport)
	require.True(t, ok)
	assert.Equal(t, infrahttp.DefaultMaxIdleConnsPerHost, tr.MaxIdleConnsPerHost)
	assert.Equal(t, infrahttp.DefaultResponseHeaderTimeout, tr.ResponseHeaderTimeout)
}

func TestNewClient_Overrides(t *testing.T) {
	c := infrahttp.NewClient(&infrahttp.ClientConfig{
		Timeout:               5 * time.Second,
		MaxIdleConnsPerHost:   2,
		ResponseHeaderTimeout: time.Second,
	})

	assert.Equal(t, 5*time.Second, c.Timeout)
	tr := c.Transport.(*nethttp.Transport)
	assert.Equal(t, 2, tr.MaxIdleConnsPerHost)
	assert.Equal(t, time.Second, tr.ResponseHeaderTimeout)
}
