package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csheth/pdfask/internal/session"
)

// CookieName carries the session id.
const CookieName = "pdfask_session"

const stateKey = "pdfask.session"

// WithSession resolves the caller's session from its cookie, issuing a
// fresh one when the cookie is missing or unknown.
func WithSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(CookieName)
		id, state := store.GetOrCreate(raw)
		if id != raw {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, id, 0, "/", "", false, true)
		}
		c.Set(stateKey, state)
		c.Next()
	}
}

// State returns the session attached by WithSession.
func State(c *gin.Context) (*session.State, bool) {
	v, ok := c.Get(stateKey)
	if !ok {
		return nil, false
	}
	state, ok := v.(*session.State)
	return state, ok
}
