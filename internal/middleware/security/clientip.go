package security

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver determines the originating client address of a request.
// Forwarding headers are honoured only when the direct peer is a trusted proxy.
type IPResolver struct {
	trustedProxies []netip.Prefix
}

// NewIPResolver trusts loopback and private networks plus any extra CIDRs.
func NewIPResolver(extra ...string) (*IPResolver, error) {
	r := &IPResolver{
		trustedProxies: []netip.Prefix{
			netip.MustParsePrefix("127.0.0.0/8"),
			netip.MustParsePrefix("::1/128"),
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("172.16.0.0/12"),
			netip.MustParsePrefix("192.168.0.0/16"),
		},
	}
	for _, cidr := range extra {
		if err := r.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddTrustedProxy adds a trusted proxy network
func (r *IPResolver) AddTrustedProxy(cidr string) error {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	r.trustedProxies = append(r.trustedProxies, prefix.Masked())
	return nil
}

// ClientIP returns the client address for req. Behind trusted proxies it is
// the rightmost X-Forwarded-For hop that is not itself a trusted proxy;
// entries left of that hop are client-supplied and ignored. It falls back
// to the direct peer when forwarding headers are absent, untrusted or
// malformed.
func (r *IPResolver) ClientIP(req *http.Request) string {
	directIP, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		directIP = req.RemoteAddr
	}

	peer, err := netip.ParseAddr(directIP)
	if err != nil || !r.isTrustedProxy(peer) {
		return directIP
	}

	if hops := forwardedHops(req); len(hops) > 0 {
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(hops[i])
			if err != nil {
				return directIP
			}
			if !r.isTrustedProxy(addr) || i == 0 {
				return addr.Unmap().String()
			}
		}
	}
	if xri := strings.TrimSpace(req.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.Unmap().String()
		}
	}

	return directIP
}

// forwardedHops flattens every X-Forwarded-For header, oldest hop first.
func forwardedHops(req *http.Request) []string {
	var hops []string
	for _, v := range req.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(v, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	return hops
}

func (r *IPResolver) isTrustedProxy(ip netip.Addr) bool {
	ip = ip.Unmap()
	for _, network := range r.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
