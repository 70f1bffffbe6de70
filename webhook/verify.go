package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalvas/paywebhook/internal/xslog"
)

// VerifyConfig configures webhook verification.
type VerifyConfig struct {
	// Tolerance is the accepted clock drift between the signing timestamp
	// and now, in either direction. Defaults to DefaultTolerance.
	Tolerance time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Cache memoizes key derivation across calls. Optional.
	Cache *KeyCache

	// Logger receives diagnostics that do not change the outcome, such as
	// ambiguous required headers. Optional.
	Logger *slog.Logger
}

func (cfg VerifyConfig) now() time.Time {
	if cfg.Now != nil {
		return cfg.Now()
	}

	return time.Now()
}

var requiredHeaders = [...]string{HeaderID, HeaderSignature, HeaderTimestamp}

// Verify checks that payload was signed with secret and that the delivery
// is within the tolerance window. It returns nil on success, an error
// wrapping ErrVerification when the delivery must be rejected, or
// ErrInvalidSecret when secret is unusable.
//
// The payload must be the raw request body exactly as received.
func Verify(secret Secret, payload []byte, headers http.Header, cfg VerifyConfig) error {
	var values [len(requiredHeaders)]string

	for i, name := range requiredHeaders {
		lookup := LookupHeader(headers, name)

		switch lookup.State {
		case HeaderFound:
			values[i] = lookup.Value
		case HeaderAmbiguous:
			if cfg.Logger != nil {
				cfg.Logger.LogAttrs(context.Background(), slog.LevelWarn, "ambiguous webhook header",
					xslog.Header(name),
				)
			}
			return fmt.Errorf("%w: %w: %s", ErrMissingRequiredHeaders, ErrAmbiguousHeader, name)
		default:
			return fmt.Errorf("%w: %s", ErrMissingRequiredHeaders, name)
		}
	}

	id, signature, rawTimestamp := values[0], values[1], values[2]

	timestamp, err := CheckTimestamp(rawTimestamp, cfg.now(), cfg.Tolerance)
	if err != nil {
		return err
	}

	key, err := cfg.Cache.Resolve(secret)
	if err != nil {
		return err
	}

	expected := Sign(key, id, timestamp, payload)

	if !FindMatch(signature, expected) {
		return ErrNoMatchingSignature
	}

	return nil
}

// VerifyRequest verifies an incoming webhook request. The body is read and
// restored so handlers can still consume it.
func VerifyRequest(r *http.Request, secret Secret, cfg VerifyConfig) error {
	body, err := readAndRestoreBody(r, 0)
	if err != nil {
		return err
	}

	return Verify(secret, body, r.Header, cfg)
}
