package resolver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestServer runs a local authoritative DNS server that answers A/AAAA
// queries for host with the given addresses, closed automatically on test
// cleanup. Returns the server's address for use as a Resolver.Servers entry.
func startTestServer(t *testing.T, host string, a, aaaa []string) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		msg := new(dns.Msg)
		msg.SetReply(req)
		if len(req.Question) == 1 && req.Question[0].Name == dns.Fqdn(host) {
			switch req.Question[0].Qtype {
			case dns.TypeA:
				for _, ip := range a {
					rr, _ := dns.NewRR(dns.Fqdn(host) + " 60 IN A " + ip)
					msg.Answer = append(msg.Answer, rr)
				}
			case dns.TypeAAAA:
				for _, ip := range aaaa {
					rr, _ := dns.NewRR(dns.Fqdn(host) + " 60 IN AAAA " + ip)
					msg.Answer = append(msg.Answer, rr)
				}
			}
		}
		_ = w.WriteMsg(msg)
	})

	srv := &dns.Server{PacketConn: pc, Handler: handler}
	go srv.ActivateAndServe()
	t.Cleanup(func() {
		_ = srv.Shutdown()
	})
	return pc.LocalAddr().String()
}

func TestLookupAReturnsAnswerFromConfiguredServer(t *testing.T) {
	addr := startTestServer(t, "present.example.", []string{"203.0.113.5"}, nil)
	r := &Resolver{Servers: []string{addr}, Timeout: 2 * time.Second}

	ips, err := r.LookupA(context.Background(), "present.example.")
	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.5"}, ips)
}

func TestLookupAAAAReturnsAnswerFromConfiguredServer(t *testing.T) {
	addr := startTestServer(t, "present.example.", nil, []string{"2001:db8::5"})
	r := &Resolver{Servers: []string{addr}, Timeout: 2 * time.Second}

	ips, err := r.LookupAAAA(context.Background(), "present.example.")
	require.NoError(t, err)
	assert.Equal(t, []string{"2001:db8::5"}, ips)
}

func TestResolvableIsFalseWithNoMatchingRecords(t *testing.T) {
	addr := startTestServer(t, "present.example.", []string{"203.0.113.5"}, nil)
	r := &Resolver{Servers: []string{addr}, Timeout: 2 * time.Second}

	assert.True(t, r.Resolvable(context.Background(), "present.example."))
	assert.False(t, r.Resolvable(context.Background(), "absent.example."))
}

func TestResolvableBatchReturnsOnlyResolvableHosts(t *testing.T) {
	addr := startTestServer(t, "present.example.", []string{"203.0.113.5"}, nil)
	r := &Resolver{Servers: []string{addr}, Timeout: 2 * time.Second}

	got := r.ResolvableBatch(context.Background(), []string{"present.example.", "absent.example."}, 2)
	assert.Equal(t, []string{"present.example."}, got)
}

func TestResolvableBatchClampsNonPositiveConcurrency(t *testing.T) {
	addr := startTestServer(t, "present.example.", []string{"203.0.113.5"}, nil)
	r := &Resolver{Servers: []string{addr}, Timeout: 2 * time.Second}

	got := r.ResolvableBatch(context.Background(), []string{"present.example."}, 0)
	assert.Equal(t, []string{"present.example."}, got)
}

func TestNewUsesDefaultServers(t *testing.T) {
	r := New()
	assert.Equal(t, DefaultServers, r.Servers)
	assert.Equal(t, 5*time.Second, r.Timeout)
}
