package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/config"
	"github.com/stemsi/exam-portal/internal/middleware"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/response"
	"github.com/stemsi/exam-portal/internal/service"
	"github.com/stemsi/exam-portal/internal/validator"
)

const loginPath = "/login"

// AuthHandler handles login and logout.
type AuthHandler struct {
	auth Authenticator
	cfg  *config.Config
	log  zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth Authenticator, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		cfg:  cfg,
		log:  log.With().Str("component", "auth_handler").Logger(),
	}
}

// LoginPage godoc
// GET /login
// Reports whether the caller already holds a live session and where to go next.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if claims := h.currentClaims(c); claims != nil {
		response.Success(c, http.StatusOK, gin.H{
			"authenticated": true,
			"username":      claims.Username,
			"role":          claims.Role,
			"redirect":      service.HomePath(claims.Role),
		})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"authenticated": false})
}

// Login godoc
// POST /login
// Verifies username + password, sets the session cookie and returns the landing route.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, res.Token, int(h.cfg.JWTExpiry.Seconds()), "/", "", h.cfg.CookieSecure, true)

	response.Success(c, http.StatusOK, gin.H{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"user": gin.H{
			"id":        res.Identity.UserID,
			"username":  res.Identity.Username,
			"role":      res.Identity.Role,
			"course_id": res.Identity.CourseID,
		},
		"redirect": res.Redirect,
	})
}

// Logout godoc
// GET|POST /logout
// Ends the session if there is one and clears the cookie. Always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := h.currentClaims(c); claims != nil {
		if err := h.auth.Logout(c.Request.Context(), claims.UserID); err != nil {
			failService(c, h.log, err)
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	response.Success(c, http.StatusOK, gin.H{"redirect": loginPath})
}

// currentClaims returns the claims of a valid, still-current session or nil.
func (h *AuthHandler) currentClaims(c *gin.Context) *service.Claims {
	tokenStr := middleware.TokenFromRequest(c, h.cfg.CookieName)
	if tokenStr == "" {
		return nil
	}
	claims, err := h.auth.ValidateToken(tokenStr)
	if err != nil {
		return nil
	}
	if err := h.auth.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
		return nil
	}
	return claims
}
