package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over the limit should be denied")
	}

	// Other clients have their own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("a different IP should not share the exhausted bucket")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request should be denied")
	}

	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("1.2.3.4") {
		t.Error("request after window reset should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "10.0.0.1:52000",
			want:       "10.0.0.1:52000",
		},
		{
			name:       "x-forwarded-for single",
			forwarded:  "203.0.113.9",
			remoteAddr: "10.0.0.1:52000",
			want:       "203.0.113.9",
		},
		{
			name:       "x-forwarded-for chain takes first hop",
			forwarded:  "203.0.113.9, 10.0.0.2, 10.0.0.3",
			remoteAddr: "10.0.0.1:52000",
			want:       "203.0.113.9",
		},
		{
			name:       "x-real-ip fallback",
			realIP:     "203.0.113.7",
			remoteAddr: "10.0.0.1:52000",
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %v, want %v", got, tt.want)
			}
		})
	}
}
