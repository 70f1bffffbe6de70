package webhook

import (
	"errors"
	"fmt"
)

// ErrVerification is wrapped by every error that means the delivery itself
// was rejected (missing headers, stale timestamp, bad signature). Use
// errors.Is(err, ErrVerification) to tell those apart from misconfiguration.
var ErrVerification = errors.New("webhook: verification failed")

// Verification errors.
var (
	// ErrMissingRequiredHeaders is returned when webhook-id,
	// webhook-timestamp or webhook-signature is absent or ambiguous.
	ErrMissingRequiredHeaders = fmt.Errorf("%w: missing required headers", ErrVerification)

	// ErrInvalidSignature is returned when the webhook-timestamp header is
	// not a base-10 integer.
	ErrInvalidSignature = fmt.Errorf("%w: invalid signature", ErrVerification)

	// ErrTimestampTooOld is returned when the timestamp lies further in the
	// past than the tolerance allows.
	ErrTimestampTooOld = fmt.Errorf("%w: message timestamp too old", ErrVerification)

	// ErrTimestampTooNew is returned when the timestamp lies further in the
	// future than the tolerance allows.
	ErrTimestampTooNew = fmt.Errorf("%w: message timestamp too new", ErrVerification)

	// ErrNoMatchingSignature is returned when no v1 signature in the
	// webhook-signature header matches the expected digest.
	ErrNoMatchingSignature = fmt.Errorf("%w: no matching signature found", ErrVerification)
)

// ErrAmbiguousHeader accompanies ErrMissingRequiredHeaders when a required
// header carries more than one distinct value.
var ErrAmbiguousHeader = errors.New("webhook: ambiguous header")

// Secret errors.
var (
	// ErrInvalidSecret is returned when the secret is empty, not valid
	// base64, or decodes to zero bytes. It does not wrap ErrVerification.
	ErrInvalidSecret = errors.New("webhook: invalid secret")
)

// Signing errors.
var (
	// ErrInvalidWebhookID is returned when a webhook id cannot be carried in
	// an HTTP header.
	ErrInvalidWebhookID = errors.New("webhook: invalid webhook id")
)

// Receiver errors.
var (
	// ErrBodyTooLarge is returned by the middleware when the request body
	// exceeds MiddlewareConfig.MaxBodyBytes.
	ErrBodyTooLarge = errors.New("webhook: request body too large")

	// ErrReplayed is passed to MiddlewareConfig.OnReplay when a verified
	// webhook id has already been claimed.
	ErrReplayed = errors.New("webhook: delivery already processed")
)

// Reason names a verification failure kind.
type Reason string

const (
	// ReasonNone means verification succeeded.
	ReasonNone Reason = ""

	// ReasonMissingRequiredHeaders matches ErrMissingRequiredHeaders.
	ReasonMissingRequiredHeaders Reason = "missing_required_headers"

	// ReasonInvalidSignature matches ErrInvalidSignature.
	ReasonInvalidSignature Reason = "invalid_signature"

	// ReasonTimestampTooOld matches ErrTimestampTooOld.
	ReasonTimestampTooOld Reason = "timestamp_too_old"

	// ReasonTimestampTooNew matches ErrTimestampTooNew.
	ReasonTimestampTooNew Reason = "timestamp_too_new"

	// ReasonNoMatchingSignature matches ErrNoMatchingSignature.
	ReasonNoMatchingSignature Reason = "no_matching_signature"

	// ReasonInvalidSecret matches ErrInvalidSecret.
	ReasonInvalidSecret Reason = "invalid_secret"

	// ReasonUnknown classifies errors from outside this package.
	ReasonUnknown Reason = "unknown"
)

func (r Reason) String() string {
	return string(r)
}

// ReasonOf classifies err. A nil error yields ReasonNone and an error outside
// this package yields ReasonUnknown.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrMissingRequiredHeaders):
		return ReasonMissingRequiredHeaders
	case errors.Is(err, ErrInvalidSignature):
		return ReasonInvalidSignature
	case errors.Is(err, ErrTimestampTooOld):
		return ReasonTimestampTooOld
	case errors.Is(err, ErrTimestampTooNew):
		return ReasonTimestampTooNew
	case errors.Is(err, ErrNoMatchingSignature):
		return ReasonNoMatchingSignature
	case errors.Is(err, ErrInvalidSecret):
		return ReasonInvalidSecret
	default:
		return ReasonUnknown
	}
}
