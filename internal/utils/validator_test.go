package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURLRequiresHTTPScheme(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com"))
	assert.True(t, IsValidURL("http://example.com/path"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL(""))
}

func TestIsValidDomain(t *testing.T) {
	assert.True(t, IsValidDomain("example.com"))
	assert.True(t, IsValidDomain("api.example.co.uk"))
	assert.False(t, IsValidDomain(""))
	assert.False(t, IsValidDomain("not a domain"))
}

func TestNormalizeURLTrimsTrailingSlashAndFragment(t *testing.T) {
	assert.Equal(t, "https://example.com/a", NormalizeURL("https://example.com/a/#section"))
	assert.Equal(t, "https://example.com", NormalizeURL("https://example.com/"))
}

func TestExtractDomainAndIsSameDomain(t *testing.T) {
	assert.Equal(t, "example.com", ExtractDomain("https://example.com/path?x=1"))
	assert.True(t, IsSameDomain("https://example.com/a", "http://example.com/b"))
	assert.False(t, IsSameDomain("https://example.com", "https://other.com"))
}

func TestIsInterestingPathMatchesKeywords(t *testing.T) {
	assert.True(t, IsInterestingPath("/api/v1/users"))
	assert.True(t, IsInterestingPath("/admin/login"))
	assert.False(t, IsInterestingPath("/static/logo.png"))
}

func TestSanitizeInputStripsNullBytesAndTrims(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello\x00  "))
}

func TestValidateHTTPMethod(t *testing.T) {
	assert.True(t, ValidateHTTPMethod("get"))
	assert.True(t, ValidateHTTPMethod("POST"))
	assert.False(t, ValidateHTTPMethod("TRACE"))
}
