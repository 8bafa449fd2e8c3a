package handlers

import (
	"Appointo/middlewares"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks that a backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	pingers map[string]Pinger
}

// NewHealthHandler reports healthy only when every named pinger succeeds.
func NewHealthHandler(pingers map[string]Pinger) *HealthHandler {
	return &HealthHandler{pingers: pingers}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.pingers))
	status := http.StatusOK
	for name, ping := range h.pingers {
		if err := ping(ctx); err != nil {
			_ = c.Error(err)
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "unavailable"
	}
	middlewares.RespondJSON(c, gin.H{"status": state, "checks": checks}, status)
}
