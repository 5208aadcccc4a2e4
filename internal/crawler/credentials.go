package crawler

import (
	"net/http"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// ApplyCredentialHeaders sets every header from creds on req. Used by the
// primary HTTP crawler and the supplemental sources when a single
// credential set was supplied, per spec.md's Non-goals ("authenticated
// scanning beyond passing a single credential set" is out of scope —
// passing one set through is in scope).
func ApplyCredentialHeaders(req *http.Request, creds *models.Credentials) {
	if creds == nil {
		return
	}
	for name, value := range creds.Headers {
		req.Header.Set(name, value)
	}
	for name, value := range creds.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

// DefaultBrowserHeaders mirrors the teacher's ExtractHeaders default
// header set, used when no explicit credential headers are supplied, so
// crawl requests look like an ordinary browser rather than a bare Go HTTP
// client.
func DefaultBrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
}
