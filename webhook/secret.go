package webhook

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// SecretPrefix is the optional prefix of string secrets issued by the
// platform console.
const SecretPrefix = "whsec_"

// generatedSecretBytes is the key size used by GenerateSecret.
const generatedSecretBytes = 32

type secretKind uint8

const (
	secretUnset secretKind = iota
	secretText
	secretRaw
)

// Secret is a webhook signing secret as supplied by the caller. Build one
// with StringSecret or RawSecret; the zero value is rejected with
// ErrInvalidSecret.
type Secret struct {
	kind secretKind
	text string
	raw  []byte
}

// StringSecret wraps a base64 secret, optionally prefixed with "whsec_".
func StringSecret(s string) Secret {
	return Secret{kind: secretText, text: s}
}

// RawSecret wraps raw key bytes. The bytes are copied.
func RawSecret(b []byte) Secret {
	raw := make([]byte, len(b))
	copy(raw, b)

	return Secret{kind: secretRaw, raw: raw}
}

// IsZero reports whether s was built by neither constructor.
func (s Secret) IsZero() bool {
	return s.kind == secretUnset
}

// cacheKey identifies the secret value in a KeyCache. Text and raw secrets
// live in separate key spaces.
func (s Secret) cacheKey() string {
	switch s.kind {
	case secretText:
		return "t:" + s.text
	case secretRaw:
		return "r:" + string(s.raw)
	default:
		return ""
	}
}

// String hides the secret value.
func (s Secret) String() string {
	if s.IsZero() {
		return "webhook.Secret(unset)"
	}

	return "webhook.Secret(redacted)"
}

// SigningKey is the HMAC key derived from a Secret. It is immutable.
type SigningKey struct {
	key []byte
}

// Len returns the key length in bytes.
func (k SigningKey) Len() int {
	return len(k.key)
}

// ResolveKey derives the signing key for secret without caching.
func ResolveKey(secret Secret) (SigningKey, error) {
	switch secret.kind {
	case secretRaw:
		if len(secret.raw) == 0 {
			return SigningKey{}, fmt.Errorf("%w: secret must not be empty", ErrInvalidSecret)
		}

		return SigningKey{key: secret.raw}, nil

	case secretText:
		encoded := strings.TrimPrefix(secret.text, SecretPrefix)

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return SigningKey{}, fmt.Errorf("%w: secret is not valid base64", ErrInvalidSecret)
		}

		if len(decoded) == 0 {
			return SigningKey{}, fmt.Errorf("%w: secret must not be empty", ErrInvalidSecret)
		}

		return SigningKey{key: decoded}, nil

	default:
		return SigningKey{}, fmt.Errorf("%w: secret is not set", ErrInvalidSecret)
	}
}

// GenerateSecret returns a new random secret in the "whsec_<base64>" form.
func GenerateSecret() (string, error) {
	b := make([]byte, generatedSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("webhook: generate secret: %w", err)
	}

	return SecretPrefix + base64.StdEncoding.EncodeToString(b), nil
}
