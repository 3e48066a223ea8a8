package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// SessionCookieName is the HttpOnly cookie carrying the session token.
const SessionCookieName = "clinic_session"

// ActorLookup reloads the actor a session was issued to. ok is false when the
// actor no longer exists.
type ActorLookup func(ctx context.Context, id uuid.UUID) (p Principal, ok bool, err error)

// tokenFromRequest reads a bearer token from the Authorization header, falling
// back to the session cookie for any other scheme.
func tokenFromRequest(c echo.Context) string {
	if h := c.Request().Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionMiddleware resolves the request's session, if any. A valid, unrevoked
// token whose actor still exists puts the reloaded Principal and the Claims on
// the request context. A missing or invalid token, or a deleted actor, leaves
// the request anonymous and is never an error here.
func SessionMiddleware(sessions *SessionManager, revoked RevocationStore, actors ActorLookup, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := tokenFromRequest(c)
			if tokenStr == "" {
				return next(c)
			}

			claims, err := sessions.Parse(tokenStr)
			if err != nil {
				logger.Debug().Err(err).Msg("ignoring invalid session token")
				return next(c)
			}

			ctx := c.Request().Context()
			isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
			if err != nil {
				return err
			}
			if isRevoked {
				return next(c)
			}

			subject, err := claims.Principal()
			if err != nil {
				logger.Debug().Err(err).Msg("ignoring session with malformed subject")
				return next(c)
			}
			p, ok, err := actors(ctx, subject.ID)
			if err != nil {
				return err
			}
			if !ok {
				logger.Debug().Str("user_id", subject.ID.String()).Msg("ignoring session of deleted actor")
				return next(c)
			}

			ctx = WithPrincipal(withClaims(ctx, claims), p)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", p.ID.String())
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests.
func RequireSession() echo.MiddlewareFunc {
	return RequireRole()
}

// SetSessionCookie stores s in the session cookie.
func SetSessionCookie(c echo.Context, s Session, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
