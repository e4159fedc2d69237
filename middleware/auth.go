package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/azerothdev/azeroth-api/cache"
	"github.com/azerothdev/azeroth-api/config"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"
const RoleKey = "role"

// Auth validates the Bearer JWT token and checks the session cache.
func Auth(sec config.SecurityConfig, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "missing token")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := ParseToken(tokenStr, sec.JWTSecret)
		if err != nil {
			abort(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		// Check session still valid in cache.
		sessionKey := "session:" + tokenStr
		cacheCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		exists, err := c.Exists(cacheCtx, sessionKey)
		if err != nil || !exists {
			abort(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "session expired")
			return
		}

		ctx.Set(UserIDKey, claims.UserID)
		ctx.Set(RoleKey, claims.Role)
		ctx.Next()
	}
}

// RequireAdmin aborts with 403 unless the authenticated user has the ADMIN
// role. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if GetRole(ctx) != model.RoleAdmin {
			abort(ctx, http.StatusForbidden, "FORBIDDEN", "admin role required")
			return
		}
		ctx.Next()
	}
}

// GetUserID retrieves the authenticated user ID from the Gin context.
func GetUserID(c *gin.Context) int64 {
	if v, exists := c.Get(UserIDKey); exists {
		return v.(int64)
	}
	return 0
}

// GetRole retrieves the authenticated user's role from the Gin context.
func GetRole(c *gin.Context) string {
	if v, exists := c.Get(RoleKey); exists {
		return v.(string)
	}
	return ""
}

// IsAdmin reports whether the authenticated user has the ADMIN role.
func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == model.RoleAdmin
}
