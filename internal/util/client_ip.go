package util

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"
)

// ProxyPolicy is the set of reverse proxies whose forwarded headers are
// believed when resolving the caller address for the verification rate
// limiter and audit logs. A nil policy trusts no proxy, so forwarded
// headers are ignored and the direct peer always wins.
type ProxyPolicy struct {
	prefixes []netip.Prefix
}

// NewProxyPolicy parses CIDR or single-address entries into a policy.
// Empty input yields a nil policy.
func NewProxyPolicy(entries []string) (*ProxyPolicy, error) {
	var prefixes []netip.Prefix
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	if len(prefixes) == 0 {
		return nil, nil
	}
	return &ProxyPolicy{prefixes: prefixes}, nil
}

// Trusts reports whether addr belongs to a trusted proxy range.
func (p *ProxyPolicy) Trusts(addr netip.Addr) bool {
	if p == nil || !addr.IsValid() {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP resolves the caller address for a request. Forwarded headers
// count only when the direct peer is a trusted proxy; the chain is walked
// from the nearest hop outward and the first address outside the trusted
// ranges wins, so a spoofed X-Forwarded-For prepended by the real client
// cannot shift the resolved address.
func ClientIP(r *http.Request, policy *ProxyPolicy) string {
	remote, ok := parseHostAddr(r.RemoteAddr)
	if !ok {
		return strings.TrimSpace(r.RemoteAddr)
	}
	if !policy.Trusts(remote) {
		return remote.String()
	}

	if forwarded := forwardedAddrs(r.Header.Get("X-Forwarded-For")); len(forwarded) > 0 {
		for i := len(forwarded) - 1; i >= 0; i-- {
			if !policy.Trusts(forwarded[i]) {
				return forwarded[i].String()
			}
		}
		// Every hop is a trusted proxy; the leftmost entry is the origin.
		return forwarded[0].String()
	}

	if real, ok := parseAddr(r.Header.Get("X-Real-IP")); ok {
		return real.String()
	}
	return remote.String()
}

func forwardedAddrs(raw string) []netip.Addr {
	parts := strings.Split(raw, ",")
	out := make([]netip.Addr, 0, len(parts))
	for _, part := range parts {
		if addr, ok := parseAddr(part); ok {
			out = append(out, addr)
		}
	}
	return out
}

// parseHostAddr accepts both host:port (the usual RemoteAddr shape) and a
// bare address.
func parseHostAddr(hostport string) (netip.Addr, bool) {
	hostport = strings.TrimSpace(hostport)
	if ap, err := netip.ParseAddrPort(hostport); err == nil {
		return ap.Addr().Unmap(), true
	}
	return parseAddr(hostport)
}

func parseAddr(raw string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
