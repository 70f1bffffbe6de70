package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalvas/paywebhook/internal/xslog"
)

// DefaultMaxBodyBytes caps webhook bodies read by Middleware.
const DefaultMaxBodyBytes int64 = 1 << 20

// ReplayGuard remembers webhook ids that were already accepted. Claim
// returns true the first time id is seen within ttl.
type ReplayGuard interface {
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
}

// MiddlewareConfig configures the server-side webhook verification
// middleware.
type MiddlewareConfig struct {
	// Secret verifies incoming deliveries. Required.
	Secret Secret

	// Verify configures tolerance, clock, key cache and diagnostics.
	Verify VerifyConfig

	// MaxBodyBytes caps the request body. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Replay, when set, rejects webhook ids that were already accepted
	// within twice the tolerance window.
	Replay ReplayGuard

	// OnError is called when verification fails. When nil, 400 is sent for
	// oversized or unreadable bodies and 401 for everything else.
	OnError func(w http.ResponseWriter, r *http.Request, err error)

	// OnReplay is called for a verified delivery whose id was already
	// claimed. When nil, 200 is sent so the platform stops retrying.
	OnReplay func(w http.ResponseWriter, r *http.Request, id string)

	// Logger records rejected and replayed deliveries. Optional.
	Logger *slog.Logger
}

type webhookIDKey struct{}

// WebhookIDFromContext returns the verified webhook id stored by
// Middleware. Returns an empty string if no id is present.
func WebhookIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(webhookIDKey{}).(string); ok {
		return id
	}

	return ""
}

// Middleware returns a middleware that verifies webhook signatures on
// incoming requests before passing them on.
//
// It returns ErrInvalidSecret if the secret cannot be used.
func Middleware(cfg MiddlewareConfig) (func(http.Handler) http.Handler, error) {
	verifyCfg := cfg.Verify
	if verifyCfg.Cache == nil {
		cache, err := NewKeyCache(1)
		if err != nil {
			return nil, err
		}
		verifyCfg.Cache = cache
	}

	if _, err := verifyCfg.Cache.Resolve(cfg.Secret); err != nil {
		return nil, err
	}

	if verifyCfg.Logger == nil {
		verifyCfg.Logger = cfg.Logger
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	tolerance := verifyCfg.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	onError := cfg.OnError
	if onError == nil {
		onError = defaultOnError
	}

	onReplay := cfg.OnReplay
	if onReplay == nil {
		onReplay = defaultOnReplay
	}

	secret := cfg.Secret
	logger := cfg.Logger
	replay := cfg.Replay

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBody)
			}

			body, err := readAndRestoreBody(r, maxBody)
			if err == nil {
				err = Verify(secret, body, r.Header, verifyCfg)
			}

			if err != nil {
				if logger != nil {
					logger.LogAttrs(r.Context(), slog.LevelWarn, "webhook rejected",
						xslog.RequestMethod(r),
						xslog.RequestPath(r),
						xslog.Reason(ReasonOf(err).String()),
						xslog.Error(err),
					)
				}
				onError(w, r, err)
				return
			}

			id := LookupHeader(r.Header, HeaderID).Value

			if replay != nil {
				claimed, err := replay.Claim(r.Context(), id, 2*tolerance)
				if err != nil {
					if logger != nil {
						logger.LogAttrs(r.Context(), slog.LevelError, "webhook replay check failed",
							xslog.WebhookID(id),
							xslog.Error(err),
						)
					}
					http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
					return
				}

				if !claimed {
					if logger != nil {
						logger.LogAttrs(r.Context(), slog.LevelInfo, "webhook replayed",
							xslog.WebhookID(id),
							xslog.Error(ErrReplayed),
						)
					}
					onReplay(w, r, id)
					return
				}
			}

			r = r.WithContext(context.WithValue(r.Context(), webhookIDKey{}, id))
			next.ServeHTTP(w, r)
		})
	}, nil
}

// defaultOnError writes a 400 response for bodies that could not be read
// and a 401 response for everything else, with no body.
func defaultOnError(w http.ResponseWriter, _ *http.Request, err error) {
	switch {
	case errors.Is(err, ErrVerification), errors.Is(err, ErrInvalidSecret):
		w.WriteHeader(http.StatusUnauthorized)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

// defaultOnReplay acknowledges a duplicate delivery with 200.
func defaultOnReplay(w http.ResponseWriter, _ *http.Request, _ string) {
	w.WriteHeader(http.StatusOK)
}
