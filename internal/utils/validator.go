package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// IsValidURL validates if a string is a valid URL
func IsValidURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	_, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return false
	}

	return true
}

// IsValidDomain validates if a string is a valid domain
func IsValidDomain(domain string) bool {
	if domain == "" {
		return false
	}

	domainRegex := regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
	return domainRegex.MatchString(domain)
}

// NormalizeURL normalizes a URL by removing trailing slashes and fragments
func NormalizeURL(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		rawURL = rawURL[:idx]
	}

	rawURL = strings.TrimRight(rawURL, "/")

	return rawURL
}

// ExtractDomain extracts the host from a URL
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// IsSameDomain checks if two URLs belong to the same host
func IsSameDomain(url1, url2 string) bool {
	return ExtractDomain(url1) == ExtractDomain(url2)
}

// interestingKeywords flags paths worth keeping during discovery — the
// generalized replacement for the teacher's payment-only keyword filter,
// since this engine discovers endpoints for every vulnerability category,
// not just payment flows.
var interestingKeywords = []string{
	"api", "admin", "auth", "login", "account", "user", "order", "payment",
	"checkout", "cart", "webhook", "callback", "graphql", "query", "v1", "v2",
	"upload", "export", "import", "config", "settings", "token", "session",
}

// IsInterestingPath reports whether a URL path looks worth keeping as a
// discovery candidate, versus incidental static assets and boilerplate.
func IsInterestingPath(path string) bool {
	lower := strings.ToLower(path)
	for _, kw := range interestingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SanitizeInput removes potentially dangerous characters from user input
func SanitizeInput(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return input
}

// ValidateHTTPMethod checks if the HTTP method is valid
func ValidateHTTPMethod(method string) bool {
	validMethods := []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	method = strings.ToUpper(method)

	for _, valid := range validMethods {
		if method == valid {
			return true
		}
	}

	return false
}
