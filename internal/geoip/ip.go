package geoip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// NormalizeIP strips the IPv4-mapped IPv6 prefix so "::ffff:1.2.3.4" and
// "1.2.3.4" share one cache entry.
func NormalizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if strings.HasPrefix(ip, "::ffff:") {
		return ip[len("::ffff:"):]
	}
	return ip
}

// IsPrivate reports whether ip is a loopback, RFC 1918, or unique local
// address that has no public location.
func IsPrivate(ip string) bool {
	addr, err := netip.ParseAddr(NormalizeIP(ip))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate()
}

// ClientIP returns the submitting client's address: the first entry of
// X-Forwarded-For when present, else the host part of remoteAddr.
// It returns "" when neither yields anything.
func ClientIP(header http.Header, remoteAddr string) string {
	if forwarded := header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return NormalizeIP(first)
		}
	}

	if remoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return NormalizeIP(host)
}
