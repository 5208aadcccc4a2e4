package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestProbeWAFDetectsCloudflareFingerprint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("cf-ray", "abc123-DFW")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := profileFor(t, srv.URL)
	vendor := ProbeWAF(context.Background(), p)
	assert.Equal(t, "cloudflare", vendor)
	assert.Contains(t, p.DetectedTech(), "waf:cloudflare")
}

func TestProbeWAFReturnsEmptyWhenNotWebTarget(t *testing.T) {
	p := &models.Profile{Host: "example.com", Scheme: "http", Port: 80, WebTarget: false}
	assert.Equal(t, "", ProbeWAF(context.Background(), p))
}

func TestProbeWAFReturnsEmptyOnUnrecognizedServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := profileFor(t, srv.URL)
	assert.Equal(t, "", ProbeWAF(context.Background(), p))
	assert.Empty(t, p.DetectedTech())
}

func profileFor(t *testing.T, rawURL string) *models.Profile {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return &models.Profile{Host: u.Hostname(), Scheme: u.Scheme, Port: port, WebTarget: true}
}
