// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/book-selection/pkg/types"
)

func userAgentServer(seen *string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
}

func TestNewClientSetsUserAgent(t *testing.T) {
	var seen string
	ts := userAgentServer(&seen)
	defer ts.Close()

	c := NewClient(types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "book-selection/test"})
	assert.Equal(t, 5*time.Second, c.Timeout)

	resp, err := c.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "book-selection/test", seen)
}

func TestNewClientKeepsExplicitUserAgent(t *testing.T) {
	var seen string
	ts := userAgentServer(&seen)
	defer ts.Close()

	c := NewClient(types.HTTPConfig{UserAgent: "book-selection/test"})
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "caller/1.0")

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "caller/1.0", seen)
	assert.Equal(t, "caller/1.0", req.Header.Get("User-Agent"))
}

func TestNewClientWithoutUserAgent(t *testing.T) {
	c := NewClient(types.HTTPConfig{})
	assert.Equal(t, time.Duration(0), c.Timeout)
	assert.Equal(t, http.DefaultTransport, c.Transport)
}
