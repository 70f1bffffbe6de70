package webhook

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Transport is an http.RoundTripper that signs outgoing webhook deliveries.
//
// A delivery keeps one webhook id and timestamp for its whole life. When the
// outgoing request already carries webhook-id or webhook-timestamp, as a
// retry of an earlier delivery or a redirect followed by http.Client does,
// those values are re-signed instead of being replaced. Stale signatures on
// the request are dropped.
type Transport struct {
	base   http.RoundTripper
	config SignConfig
}

// NewTransport creates a signing Transport that delegates to base. When base
// is nil, a clone of http.DefaultTransport is used.
//
// SignConfig.ID and SignConfig.Timestamp apply to requests that do not pin
// their own. Leave ID empty to get a fresh id per new delivery.
func NewTransport(base http.RoundTripper, cfg SignConfig) *Transport {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Transport{
		base:   base,
		config: cfg,
	}
}

// RoundTrip signs a clone of req and sends it through the base transport.
// The body is read once and the clone gets a GetBody over those bytes, so a
// rewind by the base transport resends exactly what was signed.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	payload, hasBody, err := deliveryBody(req)
	if err != nil {
		return nil, err
	}

	headers, err := SignHeaders(payload, t.deliveryConfig(req.Header))
	if err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	if hasBody {
		out.Body = io.NopCloser(bytes.NewReader(payload))
		out.ContentLength = int64(len(payload))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		}
	}

	setSignedHeaders(out.Header, headers)

	return t.base.RoundTrip(out)
}

// deliveryConfig resolves the id and timestamp for the delivery carried by
// h. Values already on the request win over the transport's config.
func (t *Transport) deliveryConfig(h http.Header) SignConfig {
	cfg := t.config

	if id := LookupHeader(h, HeaderID); id.Found() {
		cfg.ID = id.Value
	}

	if ts := LookupHeader(h, HeaderTimestamp); ts.Found() {
		if unix, err := strconv.ParseInt(ts.Value, 10, 64); err == nil {
			cfg.Timestamp = time.Unix(unix, 0)
		}
	}

	return cfg
}

// deliveryBody reads the request body. The caller's body is always closed.
func deliveryBody(req *http.Request) ([]byte, bool, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, false, nil
	}
	defer req.Body.Close()

	payload, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, false, fmt.Errorf("webhook: read delivery body: %w", err)
	}

	return payload, true, nil
}
