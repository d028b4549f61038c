package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/response"
)

// RequireRole lets through only callers whose profile holds role.
func RequireRole(role model.Role) gin.HandlerFunc {
	denied := response.ErrStudentAccessOnly
	if role == model.RoleTeacher {
		denied = response.ErrTeacherAccessOnly
	}

	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role != role {
			response.AbortFail(c, http.StatusForbidden, denied)
			return
		}
		c.Next()
	}
}
