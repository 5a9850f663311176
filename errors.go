package quizmentor

import "errors"

// Sentinel errors shared across the package. Handlers match on these with
// errors.Is to pick the right status code and error code.
var (
	// ErrGenerationFailed means the provider call errored or returned no
	// usable text. The caller must not proceed to parsing.
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrMalformedQuizContent means the provider returned text that does not
	// decode into the expected question array. Distinct from
	// ErrGenerationFailed: the transport worked, the shape did not.
	ErrMalformedQuizContent = errors.New("malformed quiz content")

	// ErrUserNotFound is returned by Store lookups for unknown identities.
	ErrUserNotFound = errors.New("user not found")
)
