package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"wedding/guesthub/internal/handler/middleware"
	jwtpkg "wedding/guesthub/pkg/jwt"
)

func getClaimsFromContext(c *gin.Context) (*jwtpkg.Claims, error) {
	claimsVal, exists := c.Get(middleware.ContextKeyUserClaims)
	if !exists {
		return nil, ErrNoClaims
	}
	claims, ok := claimsVal.(*jwtpkg.Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// getAccountIDFromContext returns the identity provider account id of the caller.
func getAccountIDFromContext(c *gin.Context) (string, error) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

var ErrNoClaims = errors.New("claims not found in context")
