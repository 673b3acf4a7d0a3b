package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedProxies configures Echo to trust reverse proxy headers
// (X-Forwarded-For, X-Real-IP) from specific IP ranges.
//
// The API runs behind a platform reverse proxy. Without this config,
// c.RealIP() would always return the proxy's IP instead of the actual
// client, which would make per-IP rate limiting pointless.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	e.IPExtractor = buildIPExtractor(trustedCIDRs)
}

// buildIPExtractor returns an Echo IPExtractor that honors X-Forwarded-For
// and X-Real-IP only when the direct connection comes from a trusted CIDR.
func buildIPExtractor(trustedCIDRs []string) echo.IPExtractor {
	var trusted []*net.IPNet
	for _, cidr := range trustedCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Invalid CIDRs are skipped; this runs once at startup.
			continue
		}
		trusted = append(trusted, network)
	}

	isTrusted := func(ipStr string) bool {
		ip := net.ParseIP(ipStr)
		if ip == nil {
			return false
		}
		for _, network := range trusted {
			if network.Contains(ip) {
				return true
			}
		}
		return false
	}

	return func(req *http.Request) string {
		directIP := extractDirectIP(req.RemoteAddr)

		// Headers from untrusted peers are attacker-controlled.
		if !isTrusted(directIP) {
			return directIP
		}

		// X-Forwarded-For holds "client, proxy1, proxy2"; the leftmost
		// entry not belonging to a trusted range is the real client.
		if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for _, part := range parts {
				candidate := strings.TrimSpace(part)
				if candidate != "" && !isTrusted(candidate) {
					return candidate
				}
			}
		}

		if realIP := strings.TrimSpace(req.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}

		return directIP
	}
}

// extractDirectIP strips the port from a RemoteAddr "host:port" value.
func extractDirectIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
