// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil builds the outbound HTTP client shared by the catalog
// search and any other remote calls.
package httputil

import (
	"net/http"

	"github.com/pdiddy/book-selection/pkg/types"
)

// NewClient returns an http.Client with cfg's timeout. When cfg.UserAgent is
// set it is added to every request that does not already carry one.
func NewClient(cfg types.HTTPConfig) *http.Client {
	var rt http.RoundTripper = http.DefaultTransport
	if cfg.UserAgent != "" {
		rt = &userAgentTransport{base: rt, userAgent: cfg.UserAgent}
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: rt}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
