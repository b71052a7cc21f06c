package pkg

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

var localDockerIPRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1$`)

// IPIsLocal reports loopback and docker bridge gateway addresses.
func IPIsLocal(ip string) bool {
	if ip == "127.0.0.1" || ip == "::1" {
		return true
	}
	return localDockerIPRegex.MatchString(ip)
}

// ClientIP returns the caller address, preferring proxy headers.
// Local development addresses collapse to "localhost".
func ClientIP(r *http.Request) string {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// first hop is the client
		ipAddr, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		ipAddr = strings.TrimSpace(ipAddr)
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if IPIsLocal(ipAddr) {
		return "localhost"
	}
	return ipAddr
}
