package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devmazaharul/fcommerce/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key holding the verified *services.SessionClaims.
const ClaimsKey = "session_claims"

// TokenVerifier is satisfied by *services.TokenService.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*services.SessionClaims, error)
}

type GuardConfig struct {
	LoginPath     string
	AdminPrefix   string
	LandingPath   string
	VerifyTimeout time.Duration
	CookieSecure  bool
}

// DefaultGuardConfig returns the standard login and admin paths.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		LoginPath:     "/access",
		AdminPrefix:   "/admin",
		LandingPath:   "/admin",
		VerifyTimeout: 2 * time.Second,
		CookieSecure:  true,
	}
}

type routeGuard struct {
	verifier TokenVerifier
	cfg      GuardConfig
	logger   *zap.Logger
}

// RouteGuard gates the login path and everything under the admin prefix.
//
// A visitor on the login path who already holds a valid session is sent to the
// landing path. A request under the admin prefix proceeds only with a valid
// session; otherwise the cookie is cleared and the visitor is sent to the login
// path. Verification errors, panics and timeouts all count as invalid.
func RouteGuard(verifier TokenVerifier, cfg GuardConfig, logger *zap.Logger) gin.HandlerFunc {
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = 2 * time.Second
	}
	g := &routeGuard{verifier: verifier, cfg: cfg, logger: logger}
	return g.handle
}

func (g *routeGuard) handle(c *gin.Context) {
	path := c.Request.URL.Path
	token, _ := c.Cookie(SessionCookieName)

	switch {
	case path == g.cfg.LoginPath:
		if token != "" && services.WellFormed(token) {
			if _, ok := g.verify(c.Request.Context(), token); ok {
				g.logger.Debug("route guard: session already valid", zap.String("path", path))
				c.Redirect(http.StatusSeeOther, g.cfg.LandingPath)
				c.Abort()
				return
			}
		}
		c.Next()

	case g.isAdminPath(path):
		if token == "" || !services.WellFormed(token) {
			g.redirectToLogin(c, "missing or malformed session")
			return
		}
		claims, ok := g.verify(c.Request.Context(), token)
		if !ok {
			g.redirectToLogin(c, "session rejected")
			return
		}
		g.logger.Debug("route guard: allow", zap.String("path", path), zap.String("email", claims.Email))
		c.Set(ClaimsKey, claims)
		c.Next()

	default:
		c.Next()
	}
}

func (g *routeGuard) isAdminPath(path string) bool {
	return path == g.cfg.AdminPrefix || strings.HasPrefix(path, g.cfg.AdminPrefix+"/")
}

func (g *routeGuard) redirectToLogin(c *gin.Context, reason string) {
	g.logger.Debug("route guard: redirect to login", zap.String("path", c.Request.URL.Path), zap.String("reason", reason))
	ClearSessionCookie(c, g.cfg.CookieSecure)
	c.Redirect(http.StatusSeeOther, g.cfg.LoginPath)
	c.Abort()
}

type verifyResult struct {
	claims *services.SessionClaims
	err    error
}

// verify runs the verifier under VerifyTimeout and converts a panic into a
// failed verification.
func (g *routeGuard) verify(parent context.Context, token string) (*services.SessionClaims, bool) {
	ctx, cancel := context.WithTimeout(parent, g.cfg.VerifyTimeout)
	defer cancel()

	done := make(chan verifyResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				g.logger.Error("route guard: verifier panicked", zap.Any("panic", r))
				done <- verifyResult{err: fmt.Errorf("verifier panic: %v", r)}
			}
		}()
		claims, err := g.verifier.Verify(ctx, token)
		done <- verifyResult{claims: claims, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil || res.claims == nil {
			return nil, false
		}
		return res.claims, true
	case <-ctx.Done():
		g.logger.Warn("route guard: verification timed out", zap.Duration("timeout", g.cfg.VerifyTimeout))
		return nil, false
	}
}

// Claims returns the session claims verified for this request.
func Claims(c *gin.Context) (*services.SessionClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.SessionClaims)
	return claims, ok && claims != nil
}
