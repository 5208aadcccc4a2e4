// Package profile builds the immutable Target Profile from raw user input,
// implementing the normalization and classification rules of spec.md §4.1.
package profile

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/resolver"
	"github.com/SpaceLeam/vapt-engine/internal/scanerrors"
)

// Builder constructs frozen Profiles. It owns the resolver used for IP
// resolution so tests can substitute a fake one.
type Builder struct {
	Resolver   *resolver.Resolver
	TLSTimeout time.Duration
}

// NewBuilder returns a Builder wired to the default DNS resolver.
func NewBuilder() *Builder {
	return &Builder{Resolver: resolver.New(), TLSTimeout: 5 * time.Second}
}

// Build implements build_profile(raw_input) → Profile from spec.md §4.1,
// returning a scanerrors.KindInvalidInput error when the rules in step 1–3
// cannot produce a usable host.
func (b *Builder) Build(ctx context.Context, rawInput string) (*models.Profile, error) {
	// 1. Trim whitespace; reject if empty.
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return nil, scanerrors.New(scanerrors.KindInvalidInput, "empty target")
	}

	// 2. Strip scheme prefix if present; remember it.
	scheme := ""
	rest := trimmed
	if idx := strings.Index(trimmed, "://"); idx != -1 {
		scheme = strings.ToLower(trimmed[:idx])
		rest = trimmed[idx+3:]
		if scheme != "http" && scheme != "https" {
			return nil, scanerrors.New(scanerrors.KindInvalidInput, fmt.Sprintf("unsupported scheme %q", scheme))
		}
	}

	// 3. Strip path, query, fragment. Host is what remains before the
	// first ':' or '/'.
	rest = strings.TrimLeft(rest, "/")
	if rest == "" {
		return nil, scanerrors.New(scanerrors.KindInvalidInput, "scheme-only target")
	}
	host, port := splitHostHint(rest)
	if host == "" {
		return nil, scanerrors.New(scanerrors.KindInvalidInput, "unparseable host")
	}

	p := &models.Profile{
		OriginalInput: rawInput,
		Host:          strings.ToLower(host),
		Scheme:        scheme,
		Port:          port,
		CreatedAt:     time.Now(),
	}

	// 4. IP literal → TargetIP.
	if ip := net.ParseIP(stripZoneID(host)); ip != nil {
		p.TargetType = models.TargetIP
		p.Scope = models.ScopeSingleHost
		p.ResolvedIPs = []string{host}
	} else {
		// 5. Count public labels.
		labels := strings.Split(p.Host, ".")
		switch {
		case len(labels) <= 2:
			p.TargetType = models.TargetRootDomain
			p.Scope = models.ScopeDomainTree
		default:
			p.TargetType = models.TargetSubdomain
			p.Scope = models.ScopeSingleHost
			p.BaseDomain = strings.Join(labels[len(labels)-2:], ".")
			if p.BaseDomain == p.Host {
				// Boundary case from spec.md §8: base_domain equal to the
				// input (single effective label) is treated as ROOT_DOMAIN.
				p.TargetType = models.TargetRootDomain
				p.Scope = models.ScopeDomainTree
				p.BaseDomain = ""
			}
		}

		// 6. Resolve host to IPs; failure leaves Reachable=false but the
		// scan continues.
		ips, err := b.resolveIPs(ctx, p.Host)
		if err == nil && len(ips) > 0 {
			p.ResolvedIPs = ips
			p.Reachable = true
		}
	}

	if p.TargetType == models.TargetIP {
		p.Reachable = b.tcpReachable(ctx, p.Host)
	}

	// 7. HTTPS capability probe: single TLS handshake, cached forever.
	p.HTTPSCapable = b.probeHTTPS(ctx, p.Host)
	p.WebTarget = p.HTTPSCapable || b.probeHTTPPlaintext(ctx, p.Host)
	if p.Scheme == "" {
		if p.HTTPSCapable {
			p.Scheme = "https"
		} else {
			p.Scheme = "http"
		}
	}
	if p.Port == 0 {
		if p.Scheme == "https" {
			p.Port = 443
		} else {
			p.Port = 80
		}
	}

	// 8. Profile is returned frozen — callers must not mutate exported
	// fields after this point; only SetDetectedCMS (a write-once cell) and
	// SetDetectedTech (an add-only set, callable many times) may be called.
	return p, nil
}

// splitHostHint extracts "host[:port]" from a path/query/fragment-stripped
// remainder, honoring IPv6 bracket notation.
func splitHostHint(rest string) (string, int) {
	// Strip path/query/fragment.
	for _, sep := range []string{"/", "?", "#"} {
		if idx := strings.Index(rest, sep); idx != -1 {
			rest = rest[:idx]
		}
	}
	if rest == "" {
		return "", 0
	}

	if strings.HasPrefix(rest, "[") {
		// IPv6 literal, optionally with :port after the closing bracket.
		end := strings.Index(rest, "]")
		if end == -1 {
			return "", 0
		}
		host := rest[1:end]
		remainder := rest[end+1:]
		port := 0
		if strings.HasPrefix(remainder, ":") {
			if p, err := strconv.Atoi(remainder[1:]); err == nil {
				port = p
			}
		}
		return host, port
	}

	if idx := strings.LastIndex(rest, ":"); idx != -1 {
		maybePort := rest[idx+1:]
		if p, err := strconv.Atoi(maybePort); err == nil {
			return rest[:idx], p
		}
	}
	return rest, 0
}

// stripZoneID removes an IPv6 zone id (e.g. fe80::1%eth0) before ParseIP,
// which spec.md §8 requires still classify as TargetIP.
func stripZoneID(host string) string {
	if idx := strings.Index(host, "%"); idx != -1 {
		return host[:idx]
	}
	return host
}

func (b *Builder) resolveIPs(ctx context.Context, host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ips, err := b.Resolver.LookupA(ctx, host)
	if err == nil && len(ips) > 0 {
		return ips, nil
	}
	return net.DefaultResolver.LookupHost(ctx, host)
}

func (b *Builder) tcpReachable(ctx context.Context, host string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, "443"))
	if err == nil {
		conn.Close()
		return true
	}
	conn, err = d.DialContext(ctx, "tcp", net.JoinHostPort(host, "80"))
	if err == nil {
		conn.Close()
		return true
	}
	return false
}

// probeHTTPS performs the single TLS handshake spec.md §4.1.7 requires and
// nothing more: the result is cached on the Profile forever, and TLS-family
// tools gate on it without ever re-probing.
func (b *Builder) probeHTTPS(ctx context.Context, host string) bool {
	timeout := b.TLSTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(host, "443"), &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         host,
	})
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (b *Builder) probeHTTPPlaintext(ctx context.Context, host string) bool {
	d := net.Dialer{Timeout: 3 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, "80"))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
