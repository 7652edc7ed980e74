package middleware

import (
	"net"
	"net/http"
	"strings"
)

// Input validation and sanitization utilities

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ClientIP extracts the originating address, preferring the edge network's
// forwarding header over the socket peer.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CountryHint reads the geolocation header supplied by the hosting edge
// network, defaulting to US when absent.
func CountryHint(r *http.Request) string {
	for _, h := range []string{"X-Vercel-IP-Country", "CF-IPCountry"} {
		if v := r.Header.Get(h); v != "" {
			return v
		}
	}
	return "US"
}
