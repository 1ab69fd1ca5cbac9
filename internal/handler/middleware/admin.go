package middleware

import (
	"github.com/gin-gonic/gin"

	jwtpkg "wedding/guesthub/pkg/jwt"
	"wedding/guesthub/pkg/response"
)

// AdminAuth checks that the authenticated account is in the admin list.
// Must be used after JWTAuth middleware.
func AdminAuth(adminUserIDs []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(adminUserIDs))
	for _, id := range adminUserIDs {
		if id != "" {
			allowed[id] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		claimsVal, exists := c.Get(ContextKeyUserClaims)
		if !exists {
			response.Unauthorized(c, "missing authentication")
			c.Abort()
			return
		}
		claims, ok := claimsVal.(*jwtpkg.Claims)
		if !ok || claims.Subject == "" {
			response.Unauthorized(c, "invalid claims")
			c.Abort()
			return
		}

		if _, isAdmin := allowed[claims.Subject]; !isAdmin {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
