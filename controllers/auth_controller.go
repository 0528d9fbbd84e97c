package controllers

import (
	"net/http"
	"time"

	"github.com/devmazaharul/fcommerce/middleware"
	"github.com/devmazaharul/fcommerce/models"
	"github.com/devmazaharul/fcommerce/services"
	"github.com/gin-gonic/gin"
)

// AuthController handles admin login, logout and account settings.
type AuthController struct {
	auth         *services.AuthService
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewAuthController(auth *services.AuthService, sessionTTL time.Duration, cookieSecure bool) *AuthController {
	return &AuthController{auth: auth, sessionTTL: sessionTTL, cookieSecure: cookieSecure}
}

// LoginPage handles GET /access. Visitors with a valid session never get
// here; the route guard redirects them to the dashboard.
func (ac *AuthController) LoginPage(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"page":   "login",
		"action": "/access",
		"fields": []string{"email", "password"},
	})
}

// Login handles POST /access.
func (ac *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	res, svcErr := ac.auth.Login(ctx.Request.Context(), req.Email, req.Password)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	middleware.SetSessionCookie(ctx, res.Token, ac.sessionTTL, ac.cookieSecure)
	ctx.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"admin":      res.Admin,
		"expires_at": res.ExpiresAt,
	})
}

// Logout handles POST /admin/logout.
func (ac *AuthController) Logout(ctx *gin.Context) {
	middleware.ClearSessionCookie(ctx, ac.cookieSecure)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) sessionEmail(ctx *gin.Context) (string, bool) {
	claims, ok := middleware.Claims(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return claims.Email, true
}

// GetSettings handles GET /admin/settings.
func (ac *AuthController) GetSettings(ctx *gin.Context) {
	email, ok := ac.sessionEmail(ctx)
	if !ok {
		return
	}
	admin, svcErr := ac.auth.GetProfile(ctx.Request.Context(), email)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"profile": admin})
}

// UpdateProfile handles PUT /admin/settings/profile.
func (ac *AuthController) UpdateProfile(ctx *gin.Context) {
	email, ok := ac.sessionEmail(ctx)
	if !ok {
		return
	}
	var req models.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	admin, svcErr := ac.auth.UpdateProfile(ctx.Request.Context(), email, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated", "profile": admin})
}

// ChangePassword handles PUT /admin/settings/password.
func (ac *AuthController) ChangePassword(ctx *gin.Context) {
	email, ok := ac.sessionEmail(ctx)
	if !ok {
		return
	}
	var req models.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	if svcErr := ac.auth.ChangePassword(ctx.Request.Context(), email, &req); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
