package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName carries the admin session token.
	SessionCookieName = "token"
	// CartSessionCookieName carries the anonymous shopper session id.
	CartSessionCookieName = "cart_session"
	// CartSessionKey is the gin context key holding the shopper session id.
	CartSessionKey = "cart_session_id"
)

// SetSessionCookie stores the bare token. HttpOnly, SameSite=Strict, Max-Age = ttl.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// CartSession makes sure every storefront request carries a shopper session id,
// issuing a fresh one when the cookie is missing or not a uuid.
func CartSession(ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CartSessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CartSessionCookieName, id, int(ttl.Seconds()), "/", "", secure, true)
		c.Set(CartSessionKey, id)
		c.Next()
	}
}
