// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

// NoProxyLocalClient returns an HTTP client that never routes requests to
// loopback hosts through a proxy, regardless of HTTP_PROXY / HTTPS_PROXY
// environment variables. Requests to other hosts honour the environment as
// usual. Local model servers (Ollama, Langflow) sit on loopback addresses
// that corporate proxy settings would otherwise intercept.
func NoProxyLocalClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if isLoopbackHost(req.URL.Hostname()) {
				return nil, nil
			}
			return http.ProxyFromEnvironment(req)
		},
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// isLoopbackHost reports whether host names the local machine.
func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
