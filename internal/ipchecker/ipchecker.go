// Package ipchecker guards internal endpoints by restricting them to a
// trusted subnet.
package ipchecker

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Guard decides whether a request originates from the trusted subnet.
// A Guard built from an empty subnet string denies everything.
type Guard struct {
	trusted *net.IPNet
}

// New creates a Guard for the given subnet in CIDR notation
// (e.g. "192.168.1.0/24"). An empty string yields a disabled Guard.
func New(trustedSubnet string) (*Guard, error) {
	if trustedSubnet == "" {
		return &Guard{}, nil
	}

	_, trusted, err := net.ParseCIDR(trustedSubnet)
	if err != nil {
		return nil, fmt.Errorf("parsing trusted subnet: %w", err)
	}

	return &Guard{trusted: trusted}, nil
}

// Allowed reports whether the request's client IP falls inside the
// trusted subnet. With no subnet configured it always returns false.
func (g *Guard) Allowed(request *http.Request) bool {
	if g.trusted == nil {
		return false
	}

	ip := clientIP(request)
	return ip != nil && g.trusted.Contains(ip)
}

// clientIP extracts the client address, preferring X-Real-IP, then the
// first X-Forwarded-For entry, then RemoteAddr.
func clientIP(request *http.Request) net.IP {
	if ip := net.ParseIP(request.Header.Get("X-Real-IP")); ip != nil {
		return ip
	}

	if xff := request.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return nil
	}

	return net.ParseIP(host)
}
