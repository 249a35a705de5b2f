package handler

import (
	"errors"
	"net/http"

	"hcp-visit-tracker/internal/middleware"
	"hcp-visit-tracker/internal/repository"
	"hcp-visit-tracker/internal/service"
	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	authService  *service.AuthService
	cookieMaxAge int
	secureCookie bool
	log          zerolog.Logger
}

func NewAuthHandler(authService *service.AuthService, tokens *utils.TokenIssuer, secureCookie bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: int(tokens.RefreshExpiry().Seconds()),
		secureCookie: secureCookie,
		log:          log,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		h.internalError(c, err, "Failed to log in")
		return
	}

	// Set refresh token as HttpOnly cookie
	h.setRefreshCookie(c, response.RefreshToken, h.cookieMaxAge)

	c.JSON(http.StatusOK, response)
}

// Refresh generates a new access token from the refresh cookie
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil || refreshToken == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not found.")
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token.")
		case errors.Is(err, service.ErrRefreshTokenExpired):
			utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token expired.")
		default:
			h.internalError(c, err, "Failed to refresh token")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout revokes the refresh token and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(refreshCookie); err == nil && refreshToken != "" {
		if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			h.internalError(c, err, "Failed to log out")
			return
		}
	}

	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authentication token.")
			return
		}
		h.internalError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, value, maxAge, "/api/auth", "", h.secureCookie, true)
}

func (h *AuthHandler) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDHeader)).
		Msg(msg)
	utils.InternalErrorResponse(c)
}
