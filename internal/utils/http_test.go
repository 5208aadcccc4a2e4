package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientDoesNotFollowRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirecting.Close()

	client := NewHTTPClient(5 * time.Second)
	resp, err := client.Get(redirecting.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestMakeRequestSetsHeadersAndDefaultUserAgent(t *testing.T) {
	var gotUA, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(5 * time.Second)
	resp, err := MakeRequest(client, http.MethodGet, srv.URL, map[string]string{"X-Custom": "yes"}, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "yes", gotCustom)
	assert.NotEmpty(t, gotUA)
}

func TestMakeRequestWithCookiesAttachesCookies(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(5 * time.Second)
	resp, err := MakeRequestWithCookies(client, http.MethodGet, srv.URL, nil, map[string]string{"session": "abc123"}, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc123", gotCookie)
}

func TestReadResponseBodyReadsAndCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)

	body, err := ReadResponseBody(resp)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}
