package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCredentialsReturnsNilWhenEmpty(t *testing.T) {
	assert.Nil(t, parseCredentials(nil, nil))
}

func TestParseCredentialsSplitsCookiesAndHeaders(t *testing.T) {
	creds := parseCredentials(
		[]string{"session=abc123", "malformed"},
		[]string{"Authorization: Bearer xyz", " X-Custom : value "},
	)
	if assert.NotNil(t, creds) {
		assert.Equal(t, "abc123", creds.Cookies["session"])
		assert.Len(t, creds.Cookies, 1)
		assert.Equal(t, "Bearer xyz", creds.Headers["Authorization"])
		assert.Equal(t, "value", creds.Headers["X-Custom"])
	}
}
