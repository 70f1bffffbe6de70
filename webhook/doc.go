// Package webhook signs and verifies payment platform webhook deliveries.
//
// Every delivery carries three headers:
//
//   - webhook-id: an opaque delivery id
//   - webhook-timestamp: Unix seconds at signing time
//   - webhook-signature: space-separated "v1,<base64>" tokens
//
// Each signature is HMAC-SHA256 over "{id}.{timestamp}.{body}" keyed with
// the endpoint secret. Secrets are standard base64, optionally prefixed with
// "whsec_".
//
// # Verifying Deliveries
//
// Use Verify with the raw request body:
//
//	err := webhook.Verify(webhook.StringSecret(secret), body, r.Header, webhook.VerifyConfig{})
//	switch {
//	case errors.Is(err, webhook.ErrInvalidSecret):
//	    // misconfiguration
//	case errors.Is(err, webhook.ErrVerification):
//	    // reject the delivery
//	}
//
// Timestamps more than five minutes away from the local clock are rejected.
// Tolerance and clock are configurable through VerifyConfig.
//
// # Key Caching
//
// Decoding a secret happens once per KeyCache entry. A Webhook owns a
// single-slot cache; hosts verifying for many endpoints should share one
// bounded cache:
//
//	cache, err := webhook.NewKeyCache(128)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = webhook.Verify(secret, body, r.Header, webhook.VerifyConfig{Cache: cache})
//
// # Server Middleware
//
// Middleware verifies deliveries before they reach a handler and can reject
// replays through a ReplayGuard (see the replay package):
//
//	mw, err := webhook.Middleware(webhook.MiddlewareConfig{
//	    Secret: webhook.StringSecret(secret),
//	    Replay: replay.NewMemory(0),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router.Use(mw)
//
// # Sending Deliveries
//
// SignHeaders and SignRequest produce the headers for an outgoing delivery.
// NewTransport signs every request sent through an http.Client:
//
//	client := &http.Client{
//	    Transport: webhook.NewTransport(nil, webhook.SignConfig{
//	        Secret: webhook.StringSecret(secret),
//	    }),
//	}
package webhook
