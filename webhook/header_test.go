package webhook

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupHeader(t *testing.T) {
	t.Run("canonical header found", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderID, "msg-1")

		got := LookupHeader(h, HeaderID)
		assert.Equal(t, HeaderLookup{State: HeaderFound, Value: "msg-1"}, got)
		assert.True(t, got.Found())
	})

	t.Run("name matching ignores case", func(t *testing.T) {
		h := http.Header{"WEBHOOK-ID": {"msg-1"}}

		got := LookupHeader(h, "Webhook-Id")
		assert.Equal(t, HeaderFound, got.State)
		assert.Equal(t, "msg-1", got.Value)
	})

	t.Run("missing header is absent", func(t *testing.T) {
		got := LookupHeader(http.Header{"Other": {"x"}}, HeaderID)
		assert.Equal(t, HeaderAbsent, got.State)
		assert.False(t, got.Found())
	})

	t.Run("nil headers are absent", func(t *testing.T) {
		assert.Equal(t, HeaderAbsent, LookupHeader(nil, HeaderID).State)
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		h := http.Header{"webhook-id": {""}}
		assert.Equal(t, HeaderAbsent, LookupHeader(h, HeaderID).State)

		h = http.Header{"webhook-id": {"", "msg-1"}}
		assert.Equal(t, HeaderLookup{State: HeaderFound, Value: "msg-1"}, LookupHeader(h, HeaderID))
	})

	t.Run("distinct values across case variants are ambiguous", func(t *testing.T) {
		h := http.Header{
			"webhook-id": {"msg-1"},
			"Webhook-Id": {"msg-2"},
		}

		got := LookupHeader(h, HeaderID)
		assert.Equal(t, HeaderAmbiguous, got.State)
		assert.Empty(t, got.Value)
	})

	t.Run("distinct values in one multi-valued header are ambiguous", func(t *testing.T) {
		h := http.Header{"Webhook-Id": {"msg-1", "msg-2"}}
		assert.Equal(t, HeaderAmbiguous, LookupHeader(h, HeaderID).State)
	})

	t.Run("repeated identical values are not ambiguous", func(t *testing.T) {
		h := http.Header{
			"webhook-id": {"msg-1", "msg-1"},
			"Webhook-Id": {"msg-1"},
		}

		assert.Equal(t, HeaderLookup{State: HeaderFound, Value: "msg-1"}, LookupHeader(h, HeaderID))
	})
}

func TestHeadersFromMap(t *testing.T) {
	h := HeadersFromMap(map[string]string{
		"webhook-id":        "msg-1",
		"Webhook-Timestamp": "100",
	})

	assert.Equal(t, []string{"msg-1"}, h["webhook-id"])
	assert.Equal(t, "100", LookupHeader(h, HeaderTimestamp).Value)
}

func TestHeaderStateString(t *testing.T) {
	assert.Equal(t, "absent", HeaderAbsent.String())
	assert.Equal(t, "found", HeaderFound.String())
	assert.Equal(t, "ambiguous", HeaderAmbiguous.String())
}
