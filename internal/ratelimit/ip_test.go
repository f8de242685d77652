package ratelimit

import (
	"net/http"
	"testing"
)

func TestExtractIPPrefersXForwardedFor(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if got := ExtractIP(r); got != "203.0.113.5" {
		t.Errorf("got %q, want 203.0.113.5", got)
	}
}

func TestExtractIPFallsBackToXRealIP(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", "192.0.2.42")
	if got := ExtractIP(r); got != "192.0.2.42" {
		t.Errorf("got %q, want 192.0.2.42", got)
	}
}

func TestExtractIPFallsBackToLoopback(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	if got := ExtractIP(r); got != "127.0.0.1" {
		t.Errorf("got %q, want 127.0.0.1", got)
	}
}

func TestExtractIPMalformedForwardedFallsThrough(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "not-an-ip")
	r.Header.Set("X-Real-IP", "192.0.2.99")
	if got := ExtractIP(r); got != "192.0.2.99" {
		t.Errorf("got %q, want fallthrough to X-Real-IP 192.0.2.99", got)
	}
}
