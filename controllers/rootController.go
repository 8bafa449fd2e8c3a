package controllers

import (
	"Appointo/handlers"
	"net/http"

	"github.com/gin-gonic/gin"
)

// rootHandler handles requests to the root path
func rootHandler(c *gin.Context) {
	c.String(http.StatusOK, "Appointo API is running")
}

// SetupRootRoute registers the root and health routes
func SetupRootRoute(router *gin.Engine, healthHandler *handlers.HealthHandler) {
	router.GET("/", rootHandler)
	router.GET("/healthz", healthHandler.Health)
}
