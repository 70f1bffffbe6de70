package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	key, err := ResolveKey(StringSecret(testSecret))
	require.NoError(t, err)

	payload := []byte(`{"test":"test payload"}`)

	t.Run("signs the canonical content", func(t *testing.T) {
		mac := hmac.New(sha256.New, key.key)
		mac.Write([]byte("dummy-webhook-id.1700000000." + string(payload)))

		assert.Equal(t, mac.Sum(nil), Sign(key, "dummy-webhook-id", 1700000000, payload))
	})

	t.Run("deterministic", func(t *testing.T) {
		a := Sign(key, "id", 42, payload)
		b := Sign(key, "id", 42, payload)
		assert.Equal(t, a, b)
		assert.Len(t, a, sha256.Size)
	})

	t.Run("every input changes the digest", func(t *testing.T) {
		base := Sign(key, "id", 42, payload)

		assert.NotEqual(t, base, Sign(key, "id2", 42, payload))
		assert.NotEqual(t, base, Sign(key, "id", 43, payload))
		assert.NotEqual(t, base, Sign(key, "id", 42, []byte(`{}`)))

		other, err := ResolveKey(RawSecret([]byte("other-key")))
		require.NoError(t, err)
		assert.NotEqual(t, base, Sign(other, "id", 42, payload))
	})

	t.Run("empty payload", func(t *testing.T) {
		mac := hmac.New(sha256.New, key.key)
		mac.Write([]byte("id.42."))

		assert.Equal(t, mac.Sum(nil), Sign(key, "id", 42, nil))
	})
}

func TestEncodeSignature(t *testing.T) {
	digest := []byte{0x01, 0x02, 0x03}
	assert.Equal(t, "v1,"+base64.StdEncoding.EncodeToString(digest), EncodeSignature(digest))
}

func TestSignHeaders(t *testing.T) {
	secret := StringSecret(SecretPrefix + testSecret)
	payload := []byte(`{"type":"Transaction.Paid"}`)
	created := time.Unix(1700000000, 0)

	t.Run("sets all three headers", func(t *testing.T) {
		h, err := SignHeaders(payload, SignConfig{
			Secret:    secret,
			ID:        "msg-1",
			Timestamp: created,
		})
		require.NoError(t, err)

		assert.Equal(t, "msg-1", h.Get(HeaderID))
		assert.Equal(t, "1700000000", h.Get(HeaderTimestamp))

		key, err := ResolveKey(secret)
		require.NoError(t, err)
		assert.Equal(t, EncodeSignature(Sign(key, "msg-1", 1700000000, payload)), h.Get(HeaderSignature))
	})

	t.Run("generates an id when none is given", func(t *testing.T) {
		h, err := SignHeaders(payload, SignConfig{Secret: secret})
		require.NoError(t, err)
		assert.Len(t, h.Get(HeaderID), 36)

		ts, err := strconv.ParseInt(h.Get(HeaderTimestamp), 10, 64)
		require.NoError(t, err)
		assert.InDelta(t, time.Now().Unix(), ts, 5)
	})

	t.Run("custom id generator", func(t *testing.T) {
		h, err := SignHeaders(payload, SignConfig{
			Secret:         secret,
			GenerateIDFunc: func() string { return "custom-id" },
		})
		require.NoError(t, err)
		assert.Equal(t, "custom-id", h.Get(HeaderID))
	})

	t.Run("rejects ids that cannot be header values", func(t *testing.T) {
		_, err := SignHeaders(payload, SignConfig{Secret: secret, ID: "bad\r\nid"})
		assert.ErrorIs(t, err, ErrInvalidWebhookID)

		_, err = SignHeaders(payload, SignConfig{
			Secret:         secret,
			GenerateIDFunc: func() string { return "" },
		})
		assert.ErrorIs(t, err, ErrInvalidWebhookID)
	})

	t.Run("invalid secret", func(t *testing.T) {
		_, err := SignHeaders(payload, SignConfig{Secret: StringSecret("")})
		assert.ErrorIs(t, err, ErrInvalidSecret)
	})

	t.Run("output verifies", func(t *testing.T) {
		h, err := SignHeaders(payload, SignConfig{Secret: secret})
		require.NoError(t, err)
		assert.NoError(t, Verify(secret, payload, h, VerifyConfig{}))
	})
}

func TestSignRequest(t *testing.T) {
	secret := StringSecret(testSecret)
	payload := `{"type":"Transaction.Paid"}`

	req := httptest.NewRequest(http.MethodPost, "https://example.com/webhooks", strings.NewReader(payload))

	err := SignRequest(req, SignConfig{Secret: secret, ID: "msg-1"})
	require.NoError(t, err)

	assert.Equal(t, "msg-1", req.Header.Get(HeaderID))
	assert.NotEmpty(t, req.Header.Get(HeaderSignature))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))

	assert.NoError(t, Verify(secret, body, req.Header, VerifyConfig{}))
}

func TestSignRequestReplacesStaleHeaders(t *testing.T) {
	secret := StringSecret(testSecret)
	payload := `{"type":"Transaction.Paid"}`

	req := httptest.NewRequest(http.MethodPost, "https://example.com/webhooks", strings.NewReader(payload))
	req.Header["webhook-signature"] = []string{"v1,c3RhbGU="}
	req.Header["webhook-id"] = []string{"old-id"}
	req.Header.Set("Content-Type", "application/json")

	require.NoError(t, SignRequest(req, SignConfig{Secret: secret, ID: "msg-2"}))

	assert.Equal(t, []string{"msg-2"}, req.Header.Values(HeaderID))
	assert.NotContains(t, req.Header, "webhook-id")
	assert.NotContains(t, req.Header, "webhook-signature")
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, HeaderFound, LookupHeader(req.Header, HeaderSignature).State)
}
