package generation

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrMissingKey    = errors.New("generation API key is not configured")
	ErrMalformedKey  = errors.New("generation API key is malformed")
	ErrQuotaExceeded = errors.New("generation quota exceeded")
	ErrAuthInvalid   = errors.New("generation API key rejected")
	ErrGeneration    = errors.New("generation failed")
	ErrEmptyPrompt   = errors.New("prompt is empty")
)

// QuotaError is returned when the provider throttles the caller. RetryAfter
// is zero when the provider gave no hint.
type QuotaError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *QuotaError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: retry after %s", ErrQuotaExceeded, e.RetryAfter)
	}
	return ErrQuotaExceeded.Error()
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// IsConfigError reports whether err stems from local key configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingKey) || errors.Is(err, ErrMalformedKey)
}

// classify turns a non-2xx provider response into one of the package errors.
func classify(status int, header http.Header, body []byte) error {
	apiStatus := gjson.GetBytes(body, "error.status").String()
	message := strings.TrimSpace(gjson.GetBytes(body, "error.message").String())
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusTooManyRequests || apiStatus == "RESOURCE_EXHAUSTED":
		return &QuotaError{RetryAfter: retryAfter(header, body), Message: message}

	case status == http.StatusUnauthorized || status == http.StatusForbidden,
		apiStatus == "UNAUTHENTICATED" || apiStatus == "PERMISSION_DENIED",
		gjson.GetBytes(body, `error.details.#(reason=="API_KEY_INVALID")`).Exists():
		return fmt.Errorf("%w: %s", ErrAuthInvalid, message)

	default:
		return fmt.Errorf("%w: status %d: %s", ErrGeneration, status, message)
	}
}

// retryAfter looks for a google.rpc.RetryInfo detail first and falls back to
// the Retry-After header (seconds).
func retryAfter(header http.Header, body []byte) time.Duration {
	var hint time.Duration
	gjson.GetBytes(body, "error.details").ForEach(func(_, detail gjson.Result) bool {
		delay := detail.Get("retryDelay")
		if !delay.Exists() {
			return true
		}
		if d, err := time.ParseDuration(delay.String()); err == nil && d > 0 {
			hint = d
			return false
		}
		return true
	})
	if hint > 0 {
		return hint
	}

	if v := strings.TrimSpace(header.Get("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
