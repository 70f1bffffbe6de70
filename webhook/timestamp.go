package webhook

import (
	"strconv"
	"time"
)

// DefaultTolerance is how far a webhook timestamp may drift from the
// receiver's clock in either direction.
const DefaultTolerance = 5 * time.Minute

// CheckTimestamp parses a webhook-timestamp value and checks it against now.
// It returns the parsed Unix seconds on success.
//
// An unparsable value yields ErrInvalidSignature. A timestamp more than
// tolerance seconds before now yields ErrTimestampTooOld and one more than
// tolerance after now yields ErrTimestampTooNew. A non-positive tolerance
// means DefaultTolerance.
func CheckTimestamp(value string, now time.Time, tolerance time.Duration) (int64, error) {
	timestamp, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, ErrInvalidSignature
	}

	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	window := int64(tolerance / time.Second)
	current := now.Unix()

	// Bounds are derived from the clock, so extreme header values cannot wrap.
	if timestamp < current-window {
		return 0, ErrTimestampTooOld
	}

	if timestamp > current+window {
		return 0, ErrTimestampTooNew
	}

	return timestamp, nil
}
