package crawler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestApplyCredentialHeadersSetsHeadersAndCookies(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	require.NoError(t, err)

	creds := &models.Credentials{
		Headers: map[string]string{"Authorization": "Bearer token"},
		Cookies: map[string]string{"session": "abc"},
	}
	ApplyCredentialHeaders(req, creds)

	assert.Equal(t, "Bearer token", req.Header.Get("Authorization"))
	cookie, err := req.Cookie("session")
	require.NoError(t, err)
	assert.Equal(t, "abc", cookie.Value)
}

func TestApplyCredentialHeadersNilIsNoOp(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() { ApplyCredentialHeaders(req, nil) })
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestDefaultBrowserHeadersLooksLikeABrowser(t *testing.T) {
	h := DefaultBrowserHeaders()
	assert.Contains(t, h["User-Agent"], "Mozilla")
	assert.NotEmpty(t, h["Accept"])
}

func TestApplyCredentialHeadersReachesServer(t *testing.T) {
	var gotAuth, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	ApplyCredentialHeaders(req, &models.Credentials{
		Headers: map[string]string{"Authorization": "Bearer xyz"},
		Cookies: map[string]string{"session": "s1"},
	})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer xyz", gotAuth)
	assert.Equal(t, "s1", gotCookie)
}
