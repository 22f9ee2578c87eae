package middleware

import (
	"net/http"
	"time"

	"github.com/wickhaven/storefront-backend/api/responses"
	"github.com/wickhaven/storefront-backend/pkg/config"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/session"
)

const (
	// SessionHeader carries the guest session token both ways.
	SessionHeader = "X-WH-Session"

	sessionCookie = "wh_session"
)

// Session resolves the guest session token from the request, minting a fresh
// one when absent or invalid. Every response carries the current token so the
// storefront can persist it.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := r.Header.Get(SessionHeader)
			if token == "" {
				if cookie, err := r.Cookie(sessionCookie); err == nil {
					token = cookie.Value
				}
			}

			var sessionID string
			if token != "" {
				claims, err := session.Parse(cfg, token)
				if err == nil {
					sessionID = claims.SessionID
				} else if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "session token rejected, minting new session")
				}
			}

			if sessionID == "" {
				sessionID = session.NewSessionID()
				minted, err := session.Mint(cfg, time.Now(), sessionID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session"))
					return
				}
				token = minted
			}

			w.Header().Set(SessionHeader, token)
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int(cfg.TTL().Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
