package generation

import (
	"regexp"
	"strings"
)

var placeholderKeys = map[string]bool{
	"placeholder_api_key": true,
	"your_api_key":        true,
	"your-api-key":        true,
	"api_key":             true,
	"gemini_api_key":      true,
	"changeme":            true,
	"undefined":           true,
	"null":                true,
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{30,}$`)

// CheckKey validates an API key locally.
func CheckKey(key string) error {
	k := strings.TrimSpace(key)
	if k == "" || placeholderKeys[strings.ToLower(k)] || strings.Trim(k, "xX*.") == "" {
		return ErrMissingKey
	}
	if !keyPattern.MatchString(k) {
		return ErrMalformedKey
	}
	return nil
}
