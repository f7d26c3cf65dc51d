package handlers

import (
	"net/http"

	"github.com/aegiscyber/portal-services/internal/clients"
	"github.com/aegiscyber/portal-services/internal/config"
	"github.com/aegiscyber/portal-services/internal/sessions"
	"github.com/aegiscyber/portal-services/internal/tokens"
	"github.com/aegiscyber/portal-services/pkg/logger"
	"github.com/aegiscyber/portal-services/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// LoginRequest exchanges a verified SSO ID token for portal tokens.
type LoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	clientsSvc  *clients.Service
	sessionsSvc *sessions.Service
	verifier    middleware.Verifier
}

func NewAuthHandler(cfg *config.Config, c *clients.Service, s *sessions.Service, v middleware.Verifier) *AuthHandler {
	return &AuthHandler{cfg: cfg, clientsSvc: c, sessionsSvc: s, verifier: v}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// Login verifies the SSO ID token, upserts the client profile, and issues a
// portal access token plus a refresh session. The role comes from the token's
// claims; anything other than "operator" is treated as a client.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.verifier == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "SSO not configured"})
		return
	}

	tok, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed", "details": err.Error()})
		return
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token", "details": err.Error()})
		return
	}

	profile, err := h.clientsSvc.UpsertFromClaims(c.Request.Context(), claims)
	if err != nil {
		logger.Errorf("profile upsert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile upsert failed", "details": err.Error()})
		return
	}
	if profile == nil {
		logger.Errorf("profile upsert returned nil (claims missing 'sub')")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "id token missing subject"})
		return
	}

	role := sessions.RoleClient
	if r, _ := claims["role"].(string); r == sessions.RoleOperator {
		role = sessions.RoleOperator
	}

	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), profile.Subject, role, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, profile.Subject, role, profile.Name, profile.Email, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Errorf("failed to sign access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
		"role":         role,
		"user":         profile,
	})
}

// Refresh exchanges a valid refresh session for a fresh access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		logger.Errorf("refresh validation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	var name, email string
	if profile, err := h.clientsSvc.GetBySubject(c.Request.Context(), sess.Subject); err == nil && profile != nil {
		name, email = profile.Name, profile.Email
	}
	access, err := tokens.GenerateAccessToken(h.cfg, sess.Subject, sess.Role, name, email, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Errorf("failed to sign access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// Logout deletes the refresh session and blacklists the presented access
// token for the remainder of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = c.ShouldBindJSON(&req)

	if req.RefreshToken != "" {
		if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
			logger.Warnf("failed to delete refresh session: %v", err)
		}
	}

	if auth := c.GetHeader("Authorization"); len(auth) > len("Bearer ") && auth[:7] == "Bearer " {
		raw := auth[7:]
		if err := sessions.BlacklistAccessToken(c.Request.Context(), raw, h.cfg.JWT.AccessTokenTTL); err != nil {
			logger.Warnf("failed to blacklist access token: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
