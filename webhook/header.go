package webhook

import (
	"net/http"
	"strings"
)

// Header names carried by every webhook delivery.
const (
	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"
)

// HeaderState tells whether a header lookup found a single usable value.
type HeaderState int

const (
	// HeaderAbsent means no matching key held a non-empty value.
	HeaderAbsent HeaderState = iota

	// HeaderFound means exactly one distinct non-empty value was present.
	HeaderFound

	// HeaderAmbiguous means more than one distinct value was present.
	HeaderAmbiguous
)

func (s HeaderState) String() string {
	switch s {
	case HeaderFound:
		return "found"
	case HeaderAmbiguous:
		return "ambiguous"
	default:
		return "absent"
	}
}

// HeaderLookup is the result of LookupHeader. Value is only meaningful when
// State is HeaderFound.
type HeaderLookup struct {
	State HeaderState
	Value string
}

// Found reports whether exactly one distinct value was present.
func (l HeaderLookup) Found() bool {
	return l.State == HeaderFound
}

// LookupHeader finds name in h ignoring case. Keys are compared with
// strings.EqualFold, so maps that were not built through http.Header.Set
// (and may hold "Webhook-Id" next to "webhook-id") are handled too.
//
// Every value of every matching key is considered. Empty values are ignored
// and repeated identical values collapse into one. More than one distinct
// value yields HeaderAmbiguous rather than picking one.
func LookupHeader(h http.Header, name string) HeaderLookup {
	var (
		value string
		found bool
	)

	for key, values := range h {
		if !strings.EqualFold(key, name) {
			continue
		}

		for _, v := range values {
			if v == "" {
				continue
			}

			if found && v != value {
				return HeaderLookup{State: HeaderAmbiguous}
			}

			value = v
			found = true
		}
	}

	if !found {
		return HeaderLookup{State: HeaderAbsent}
	}

	return HeaderLookup{State: HeaderFound, Value: value}
}

// HeadersFromMap adapts a single-valued header map. Keys are kept as given.
func HeadersFromMap(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		h[k] = append(h[k], v)
	}

	return h
}
