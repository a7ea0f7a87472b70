// Package generation talks to the generative image model.
//
// # Overview
//
// Client wraps the Gemini generateContent REST endpoint and offers two
// operations:
//
//   - Transform: photo + OrganizingStyle → organized "after" image and a
//     5-step plan extracted from the model's text.
//   - Imagine: free-text prompt → image only.
//
// Every request is independent. The client keeps no state between calls, so
// it is safe to invoke concurrently and a repeated call is simply a second
// request.
//
// # Error Handling
//
// Provider failures are classified before they leave the package:
//
//   - *QuotaError (errors.Is(err, ErrQuotaExceeded)) for HTTP 429 or
//     RESOURCE_EXHAUSTED, with an optional RetryAfter hint;
//   - ErrAuthInvalid when the provider rejects the key;
//   - ErrGeneration for everything else, including undecodable responses.
//
// CheckConfig reports ErrMissingKey / ErrMalformedKey without any network
// traffic so callers can refuse to dispatch a doomed request.
//
// Step extraction never fails: ExtractSteps returns exactly StepCount steps
// or none.
package generation
