package utils

import (
	"net"
	"net/http"
	"strings"
)

// ParseHostNoPort strips the port from a host:port pair; bare hosts and
// bracketed IPv6 literals come back unchanged.
func ParseHostNoPort(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return strings.Trim(hostport, "[]")
	}
	return host
}

// ClientIP extracts the direct peer address of a request. The server never
// sits behind a proxy, so forwarding headers are deliberately ignored.
func ClientIP(r *http.Request) string {
	return ParseHostNoPort(r.RemoteAddr)
}

// IsLoopback reports whether addr is a loopback IP. Unparseable addresses
// count as non-loopback.
func IsLoopback(addr string) bool {
	ip := net.ParseIP(addr)
	return ip != nil && ip.IsLoopback()
}
