package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	resolver, err := NewIPResolver("203.0.113.0/24")
	require.NoError(t, err)

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct peer", "198.51.100.7:5000", nil, "198.51.100.7"},
		{"untrusted peer ignores forwarding", "198.51.100.7:5000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "198.51.100.7"},
		{"trusted proxy forwards", "10.0.0.2:5000", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.2"}, "1.2.3.4"},
		{"extra trusted network", "203.0.113.9:5000", map[string]string{"X-Forwarded-For": "5.6.7.8"}, "5.6.7.8"},
		{"real ip fallback", "127.0.0.1:5000", map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
		{"malformed forwarded value", "127.0.0.1:5000", map[string]string{"X-Forwarded-For": "nonsense"}, "127.0.0.1"},
		{"spoofed leading hop ignored", "10.0.0.2:5000", map[string]string{"X-Forwarded-For": "6.6.6.6, 1.2.3.4"}, "1.2.3.4"},
		{"trusted hops skipped", "10.0.0.2:5000", map[string]string{"X-Forwarded-For": "1.2.3.4, 192.168.1.10, 10.0.0.3"}, "1.2.3.4"},
		{"every hop trusted", "10.0.0.2:5000", map[string]string{"X-Forwarded-For": "10.0.0.5, 10.0.0.3"}, "10.0.0.5"},
		{"garbage left of real hop", "10.0.0.2:5000", map[string]string{"X-Forwarded-For": "nonsense, 1.2.3.4"}, "1.2.3.4"},
		{"ipv4-mapped peer", "[::ffff:10.0.0.2]:5000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "1.2.3.4"},
		{"remote addr without port", "198.51.100.7", nil, "198.51.100.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, resolver.ClientIP(req))
		})
	}
}

func TestClientIPJoinsRepeatedForwardedHeaders(t *testing.T) {
	resolver, err := NewIPResolver()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	req.Header.Add("X-Forwarded-For", "6.6.6.6")
	req.Header.Add("X-Forwarded-For", "1.2.3.4, 10.0.0.9")

	assert.Equal(t, "1.2.3.4", resolver.ClientIP(req))
}

func TestNewIPResolverRejectsBadCIDR(t *testing.T) {
	_, err := NewIPResolver("not-a-cidr")
	assert.Error(t, err)
}

func TestHeaders(t *testing.T) {
	handler := Headers(DefaultHeadersConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cards", nil))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	req.TLS = &tls.ConnectionState{}
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
}
