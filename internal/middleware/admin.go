package middleware

import (
	"net/http"

	"github.com/damoang/angple-moderation/internal/common"
	"github.com/gin-gonic/gin"
)

// RequireModerator rejects callers that are neither ADMIN nor OPERATOR
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetModerator(c).CanModerate() {
			common.V2ErrorResponse(c, http.StatusForbidden, "관리자 또는 운영자 권한이 필요합니다", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
