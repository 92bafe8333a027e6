// internal/app/system/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d: expected allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("expected 4th attempt to be blocked")
	}
	if !l.Allow("other") {
		t.Error("different key should not share the budget")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := New(1, 10*time.Millisecond)

	if !l.Allow("k") {
		t.Fatal("first attempt blocked")
	}
	if l.Allow("k") {
		t.Fatal("second attempt in window should be blocked")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("attempt after window expiry should be allowed")
	}
}

func TestLimiterReset(t *testing.T) {
	l := New(1, time.Minute)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected blocked before reset")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected allowed after reset")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr with port", "203.0.113.7:4123", "", "", "203.0.113.7"},
		{"x-forwarded-for single", "10.0.0.1:80", "198.51.100.9", "", "198.51.100.9"},
		{"x-forwarded-for chain", "10.0.0.1:80", "198.51.100.9, 10.0.0.2", "", "198.51.100.9"},
		{"x-real-ip fallback", "10.0.0.1:80", "", "198.51.100.10", "198.51.100.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiterPerEmail(t *testing.T) {
	ll := NewLoginLimiter()
	r := httptest.NewRequest("POST", "/api/auth/login", nil)

	for i := 0; i < 5; i++ {
		if ok, _ := ll.Check(r, "Asha@Example.com"); !ok {
			t.Fatalf("attempt %d: expected allowed", i+1)
		}
	}
	// Case and whitespace fold onto the same account key.
	ok, reason := ll.Check(r, "  asha@example.com ")
	if ok {
		t.Fatal("expected 6th attempt for the same email to be blocked")
	}
	if reason == "" {
		t.Error("expected a reason when blocked")
	}

	ll.ResetEmail("asha@example.com")
	if ok, _ := ll.Check(r, "asha@example.com"); !ok {
		t.Error("expected allowed after ResetEmail")
	}
}
