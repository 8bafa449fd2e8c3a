package middlewares

import (
	"Appointo/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	if err != nil {
		_ = c.Error(err)
		log.Debug().Err(err).Int("status", status).Msg(message)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondServiceError maps a service error onto a status code and writes
// {"error", "reason"}. Internal causes are logged, never returned.
func RespondServiceError(c *gin.Context, err error) {
	se := services.AsError(err)
	status := StatusFor(se.Kind)
	if status == http.StatusInternalServerError && se.Err != nil {
		_ = c.Error(se.Err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": se.Message, "reason": se.Reason})
}

// StatusFor is the HTTP status used for a service error kind.
func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindValidation, services.KindRejected:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
