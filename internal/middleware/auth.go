package middleware

import (
	"net/http"
	"strings"

	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys for the authenticated principal
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextEmail  = "email"
)

const (
	msgTokenMissing      = "Authentication token missing."
	msgTokenInvalid      = "Invalid authentication token."
	msgInsufficientPerms = "Insufficient permissions."
)

// AuthMiddleware validates the access token and stores the principal in the context.
// The token comes from X-Auth-Token or, failing that, an "Authorization: Bearer" header.
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, msgTokenMissing)
			return
		}

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			utils.AbortWithError(c, http.StatusUnauthorized, msgTokenInvalid)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader("X-Auth-Token")); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > len("bearer ") && strings.EqualFold(authHeader[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(authHeader[len("bearer "):])
	}
	return ""
}

// RequireRole rejects principals whose role is not listed
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.AbortWithError(c, http.StatusForbidden, msgInsufficientPerms)
	}
}

// UserID returns the authenticated user's id, or 0 outside AuthMiddleware
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
