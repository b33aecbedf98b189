package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"syncportal/internal/middleware"
	"syncportal/internal/service"
)

const identityCookie = "sync_identity"

type loginPageResponse struct {
	Step     string `json:"step"`
	Next     string `json:"next"`
	Redirect string `json:"redirect,omitempty"`
}

// Root is the login page. Signed-in callers go straight to the dashboard.
func (h HandlerSet) Root(c *gin.Context) {
	if _, ok := middleware.CurrentSession(c); ok {
		c.Redirect(http.StatusFound, middleware.DashboardPath)
		return
	}
	c.JSON(http.StatusOK, loginPageResponse{Step: "identity", Next: "/login/identity"})
}

type identityRequest struct {
	NationalID string `json:"national_id" binding:"required"`
}

type identityResponse struct {
	Ticket     string `json:"ticket,omitempty"`
	Message    string `json:"message"`
	Source     string `json:"source"`
	WellFormed bool   `json:"well_formed"`
	Next       string `json:"next,omitempty"`
}

func (h HandlerSet) CheckIdentity(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "national_id_required"})
		return
	}

	result, err := h.authService.CheckIdentifier(c.Request.Context(), req.NationalID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidIdentifier) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_identifier",
				"message": result.Message,
				"source":  string(result.Source),
			})
			return
		}
		h.internalError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(identityCookie, result.Ticket, int(h.cfg.Security.TicketTTL.Seconds()), "/login", "", h.cfg.Security.SecureCookies, true)
	c.JSON(http.StatusOK, identityResponse{
		Ticket:     result.Ticket,
		Message:    result.Message,
		Source:     string(result.Source),
		WellFormed: result.WellFormed,
		Next:       "/login",
	})
}

type loginRequest struct {
	Ticket   string `json:"ticket"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
	Redirect  string `json:"redirect"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username_and_password_required"})
		return
	}
	if req.Ticket == "" {
		req.Ticket, _ = c.Cookie(identityCookie)
	}

	result, err := h.authService.Login(c.Request.Context(), req.Ticket, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIdentityRequired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "identity_required"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		default:
			h.internalError(c, err)
		}
		return
	}

	role, _ := result.State.Role()
	middleware.SetSessionCookie(c, result.Token, int(h.sessions.TTL().Seconds()), h.cfg.Security.SecureCookies)
	c.SetCookie(identityCookie, "", -1, "/login", "", h.cfg.Security.SecureCookies, true)
	c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		Role:      string(role),
		ExpiresAt: result.State.ExpiresAt().Unix(),
		Redirect:  middleware.DashboardPath,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	if st, ok := middleware.CurrentSession(c); ok {
		if err := h.authService.Logout(c.Request.Context(), st); err != nil {
			h.log.Warn().Err(err).Msg("revoke session failed")
		}
	}
	middleware.ClearSessionCookie(c, h.cfg.Security.SecureCookies)
	c.JSON(http.StatusOK, loginPageResponse{Step: "identity", Next: "/login/identity", Redirect: middleware.LoginPath})
}
