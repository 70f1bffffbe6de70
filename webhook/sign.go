package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
)

// SignatureVersion is the only signature scheme this package produces and
// accepts.
const SignatureVersion = "v1"

// Sign computes HMAC-SHA256 over "{id}.{timestamp}.{payload}" with key.
// The timestamp is written in decimal Unix seconds.
func Sign(key SigningKey, id string, timestamp int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, key.key)
	mac.Write([]byte(id))
	mac.Write([]byte{'.'})
	mac.Write(strconv.AppendInt(nil, timestamp, 10))
	mac.Write([]byte{'.'})
	mac.Write(payload)

	return mac.Sum(nil)
}

// EncodeSignature formats a digest as a "v1,<base64>" signature token.
func EncodeSignature(digest []byte) string {
	return SignatureVersion + "," + base64.StdEncoding.EncodeToString(digest)
}

// GenerateID returns a new random webhook id.
func GenerateID() string {
	return uuid.New().String()
}

// SignConfig configures how outgoing deliveries are signed.
type SignConfig struct {
	// Secret signs the delivery. Required.
	Secret Secret

	// Cache memoizes key derivation. Optional.
	Cache *KeyCache

	// ID is the webhook id. When empty, GenerateIDFunc is called.
	ID string

	// GenerateIDFunc returns a fresh webhook id. Defaults to GenerateID.
	GenerateIDFunc func() string

	// Timestamp sets the signing time. When zero, time.Now() is used.
	Timestamp time.Time
}

// SignHeaders returns the webhook-id, webhook-timestamp and
// webhook-signature headers for payload.
func SignHeaders(payload []byte, cfg SignConfig) (http.Header, error) {
	key, err := cfg.Cache.Resolve(cfg.Secret)
	if err != nil {
		return nil, err
	}

	id := cfg.ID
	if id == "" {
		generate := cfg.GenerateIDFunc
		if generate == nil {
			generate = GenerateID
		}
		id = generate()
	}

	if id == "" || !httpguts.ValidHeaderFieldValue(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWebhookID, id)
	}

	created := cfg.Timestamp
	if created.IsZero() {
		created = time.Now()
	}

	timestamp := created.Unix()
	digest := Sign(key, id, timestamp, payload)

	h := make(http.Header, 3)
	h.Set(HeaderID, id)
	h.Set(HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	h.Set(HeaderSignature, EncodeSignature(digest))

	return h, nil
}

// SignRequest signs r in place. The body is read and restored so that it can
// still be sent.
func SignRequest(r *http.Request, cfg SignConfig) error {
	body, err := readAndRestoreBody(r, 0)
	if err != nil {
		return err
	}

	h, err := SignHeaders(body, cfg)
	if err != nil {
		return err
	}

	setSignedHeaders(r.Header, h)

	return nil
}

// setSignedHeaders replaces the webhook headers in dst with those in src.
// Keys that differ from a signed header only in case are removed first, so
// a receiver never sees an old value next to the new one.
func setSignedHeaders(dst, src http.Header) {
	for key := range dst {
		for name := range src {
			if strings.EqualFold(key, name) {
				delete(dst, key)
				break
			}
		}
	}

	for name, values := range src {
		dst[name] = values
	}
}
