package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/damoang/angple-moderation/internal/common"
	"github.com/damoang/angple-moderation/internal/domain"
	"github.com/damoang/angple-moderation/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUserID = "userID"
	ctxKeyRole   = "role"
)

// JWTAuth verifies the bearer token and stores the caller's id and role
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.V2ErrorResponse(c, http.StatusUnauthorized, "Missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			common.V2ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.V2ErrorResponse(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.V2ErrorResponse(c, http.StatusUnauthorized, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyRole, strings.ToUpper(claims.Role))
		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

// GetRole extracts the caller's role from context
func GetRole(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}

// GetModerator returns the acting moderator resolved by JWTAuth
func GetModerator(c *gin.Context) domain.Moderator {
	return domain.Moderator{ID: GetUserID(c), Role: GetRole(c)}
}
