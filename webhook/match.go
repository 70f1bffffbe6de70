package webhook

import (
	"crypto/hmac"
	"encoding/base64"
	"strings"
)

// SignatureCandidate is one parsed "{version},{base64-digest}" token of the
// webhook-signature header.
type SignatureCandidate struct {
	Version string
	Digest  []byte
}

// splitToken splits a signature token into version and encoded digest.
// Anything after a second comma is ignored.
func splitToken(token string) (string, string, bool) {
	parts := strings.SplitN(token, ",", 3)
	if len(parts) < 2 {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// ParseSignatures returns every well-formed candidate in header, in order.
// Tokens without a comma or with undecodable digests are dropped. Versions
// other than v1 are kept so that callers can inspect them.
func ParseSignatures(header string) []SignatureCandidate {
	var candidates []SignatureCandidate

	for token := range strings.SplitSeq(header, " ") {
		version, encoded, ok := splitToken(token)
		if !ok {
			continue
		}

		digest, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}

		candidates = append(candidates, SignatureCandidate{Version: version, Digest: digest})
	}

	return candidates
}

// FindMatch reports whether any v1 token in header carries expected.
// Malformed tokens and unknown versions are skipped. Digests are compared
// with hmac.Equal, whose running time does not depend on where the inputs
// differ.
func FindMatch(header string, expected []byte) bool {
	for token := range strings.SplitSeq(header, " ") {
		version, encoded, ok := splitToken(token)
		if !ok || version != SignatureVersion {
			continue
		}

		digest, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}

		if hmac.Equal(digest, expected) {
			return true
		}
	}

	return false
}
