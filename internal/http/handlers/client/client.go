package client

import (
	"net"
	"net/http"
)

// Key identifies the calling client for rate limiting. RemoteAddr is
// expected to be rewritten by the RealIP middleware when behind a proxy.
func Key(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
