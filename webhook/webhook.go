package webhook

import (
	"net/http"
	"time"
)

// Webhook binds a secret to its verification settings. It is safe for
// concurrent use.
type Webhook struct {
	secret Secret
	cfg    VerifyConfig
}

// New validates secret and returns a Webhook. When cfg.Cache is nil a
// single-slot KeyCache is created, since a Webhook only ever uses one secret.
func New(secret Secret, cfg VerifyConfig) (*Webhook, error) {
	if cfg.Cache == nil {
		cache, err := NewKeyCache(1)
		if err != nil {
			return nil, err
		}
		cfg.Cache = cache
	}

	if _, err := cfg.Cache.Resolve(secret); err != nil {
		return nil, err
	}

	return &Webhook{secret: secret, cfg: cfg}, nil
}

// Verify checks payload against headers. See the package-level Verify.
func (w *Webhook) Verify(payload []byte, headers http.Header) error {
	return Verify(w.secret, payload, headers, w.cfg)
}

// VerifyRequest checks an incoming request. See the package-level
// VerifyRequest.
func (w *Webhook) VerifyRequest(r *http.Request) error {
	return VerifyRequest(r, w.secret, w.cfg)
}

// Sign returns the v1 signature token for the given delivery.
func (w *Webhook) Sign(id string, timestamp time.Time, payload []byte) (string, error) {
	key, err := w.cfg.Cache.Resolve(w.secret)
	if err != nil {
		return "", err
	}

	return EncodeSignature(Sign(key, id, timestamp.Unix(), payload)), nil
}

// SignHeaders returns the full header set for payload using the Webhook's
// secret. ID and Timestamp follow SignConfig defaults when empty.
func (w *Webhook) SignHeaders(payload []byte, id string, timestamp time.Time) (http.Header, error) {
	return SignHeaders(payload, SignConfig{
		Secret:    w.secret,
		Cache:     w.cfg.Cache,
		ID:        id,
		Timestamp: timestamp,
	})
}
