// Package resolver wraps github.com/miekg/dns for the two native, in-process
// DNS operations spec.md keeps in scope: Target Profile host resolution
// (§4.1 step 6) and Discovery Cache subdomain verification (§4.2's
// verify_subdomains). Every other DNS-family capability (the combined
// A/AAAA/NS/MX/TXT tool, the minimal A/AAAA tool, subdomain enumeration) is
// an external catalogue tool invoked as a subprocess — this package is never
// used to implement those.
package resolver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// DefaultServers are tried in order; the first that answers wins.
var DefaultServers = []string{"1.1.1.1:53", "8.8.8.8:53"}

// Resolver issues direct DNS queries against a fixed resolver list, trying
// each server in turn; if none answers successfully the lookup returns an
// error (it does not fall back to the system resolver).
type Resolver struct {
	Servers []string
	Timeout time.Duration
}

// New builds a Resolver with the package defaults.
func New() *Resolver {
	return &Resolver{Servers: DefaultServers, Timeout: 5 * time.Second}
}

// LookupA resolves A records for host, returning IPv4 literals.
func (r *Resolver) LookupA(ctx context.Context, host string) ([]string, error) {
	return r.lookup(ctx, host, dns.TypeA)
}

// LookupAAAA resolves AAAA records for host, returning IPv6 literals.
func (r *Resolver) LookupAAAA(ctx context.Context, host string) ([]string, error) {
	return r.lookup(ctx, host, dns.TypeAAAA)
}

// Resolvable reports whether host has at least one A or AAAA record —
// the predicate behind Cache.VerifySubdomains.
func (r *Resolver) Resolvable(ctx context.Context, host string) bool {
	if ips, err := r.LookupA(ctx, host); err == nil && len(ips) > 0 {
		return true
	}
	if ips, err := r.LookupAAAA(ctx, host); err == nil && len(ips) > 0 {
		return true
	}
	return false
}

func (r *Resolver) lookup(ctx context.Context, host string, qtype uint16) ([]string, error) {
	fqdn := dns.Fqdn(host)
	msg := new(dns.Msg)
	msg.SetQuestion(fqdn, qtype)
	msg.RecursionDesired = true

	client := &dns.Client{Timeout: r.Timeout}

	var lastErr error
	for _, server := range r.Servers {
		resp, _, err := client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("dns: %s answered rcode %s for %s", server, dns.RcodeToString[resp.Rcode], host)
			continue
		}
		return extractAddrs(resp, qtype), nil
	}
	return nil, fmt.Errorf("dns: all resolvers failed for %s: %w", host, lastErr)
}

func extractAddrs(resp *dns.Msg, qtype uint16) []string {
	var out []string
	for _, rr := range resp.Answer {
		switch qtype {
		case dns.TypeA:
			if a, ok := rr.(*dns.A); ok {
				out = append(out, a.A.String())
			}
		case dns.TypeAAAA:
			if aaaa, ok := rr.(*dns.AAAA); ok {
				out = append(out, aaaa.AAAA.String())
			}
		}
	}
	return out
}

// ResolvableBatch checks many hosts concurrently, bounded by concurrency,
// returning only the resolvable subset. Used by Cache.VerifySubdomains.
func (r *Resolver) ResolvableBatch(ctx context.Context, hosts []string, concurrency int) []string {
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var mu sync.Mutex
	var wg sync.WaitGroup
	var verified []string

	for _, h := range hosts {
		h := h
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if r.Resolvable(ctx, h) {
				mu.Lock()
				verified = append(verified, h)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return verified
}
