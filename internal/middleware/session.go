package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"syncportal/internal/session"
)

const (
	SessionCookie = "sync_session"
	sessionKey    = "session_state"
)

// Session resolves the caller's session token, if any, and stores the State
// on the context. Requests without a usable token continue unauthenticated.
func Session(sessions *session.Manager, secureCookies bool, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		st, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrRevoked) {
				log.Warn().Err(err).Str("request_id", GetRequestID(c)).Msg("session lookup failed")
			}
			if fromCookie {
				ClearSessionCookie(c, secureCookies)
			}
			c.Next()
			return
		}

		c.Set(sessionKey, st)
		c.Next()
	}
}

func sessionToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), false
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func CurrentSession(c *gin.Context) (session.State, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return session.State{}, false
	}
	st, ok := v.(session.State)
	if !ok || !st.Authenticated() {
		return session.State{}, false
	}
	return st, true
}

func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
