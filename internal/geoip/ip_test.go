package geoip

import (
	"net/http"
	"testing"
)

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"::ffff:203.0.113.9", "203.0.113.9"},
		{" 198.51.100.1 ", "198.51.100.1"},
		{"2001:db8::1", "2001:db8::1"},
	}

	for _, tt := range tests {
		if got := NormalizeIP(tt.in); got != tt.want {
			t.Errorf("NormalizeIP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPrivate(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"192.168.0.10", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"172.32.0.1", false},
		{"fd00::1", true},
		{"::ffff:10.0.0.1", true},
		{"8.8.8.8", false},
		{"not-an-ip", false},
	}

	for _, tt := range tests {
		if got := IsPrivate(tt.ip); got != tt.want {
			t.Errorf("IsPrivate(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"forwarded header wins", "203.0.113.5, 10.0.0.1", "127.0.0.1:5000", "203.0.113.5"},
		{"mapped forwarded address", "::ffff:203.0.113.5", "", "203.0.113.5"},
		{"remote address with port", "", "198.51.100.7:41234", "198.51.100.7"},
		{"ipv6 remote address", "", "[2001:db8::2]:443", "2001:db8::2"},
		{"nothing known", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.forwarded != "" {
				header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(header, tt.remoteAddr); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
