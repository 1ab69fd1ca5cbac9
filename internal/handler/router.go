package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wedding/guesthub/internal/config"
	"wedding/guesthub/internal/handler/middleware"
	jwtpkg "wedding/guesthub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	signupHandler *SignupHandler,
	guestHandler *GuestHandler,
	adminHandler *AdminHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.POST("/signup/complete", signupHandler.CompleteSignup)

		protected.GET("/me/guest", guestHandler.MyGuest)
		protected.PUT("/me/rsvp", guestHandler.SubmitRSVP)
	}

	// Admin routes (JWT + admin check)
	if adminHandler != nil {
		admin := r.Group("/api/v1/admin")
		admin.Use(middleware.JWTAuth(jwtManager))
		admin.Use(middleware.AdminAuth(cfg.Admin.UserIDs))
		{
			admin.POST("/guests", adminHandler.ImportGuests)
			admin.GET("/guests/unmatched", adminHandler.ListUnmatchedGuests)
			admin.POST("/guests/:id/link", adminHandler.LinkGuest)
			admin.GET("/guests/:id/links", adminHandler.ListLinks)

			admin.GET("/users/unlinked", adminHandler.ListUnlinkedUsers)
		}
	}

	return r
}
