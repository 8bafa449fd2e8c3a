package controllers

import (
	"Appointo/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes mounts the auth routes under /api/auth. requireUser guards
// the routes that need a logged in patient.
func (ac *AuthController) RegisterRoutes(api *gin.RouterGroup, requireUser gin.HandlerFunc) {
	auth := api.Group("/auth")

	// Public routes: No authentication required
	auth.POST("/signup", ac.Handler.Signup)
	auth.POST("/login", ac.Handler.Login)
	auth.POST("/refresh-token", ac.Handler.RefreshToken)
	auth.POST("/logout", ac.Handler.Logout)

	// Protected routes: Requires a valid token
	auth.GET("/me", requireUser, ac.Handler.Me)
}
