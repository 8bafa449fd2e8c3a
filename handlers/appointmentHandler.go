package handlers

import (
	"Appointo/middlewares"
	"Appointo/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service services.AppointmentService
}

func NewAppointmentHandler(service services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// CheckAvailability previews the next token and reporting time for a doctor
// on a date without booking anything.
func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	name := c.Query("name")
	date := c.Query("date")

	result, err := h.service.Availability(c.Request.Context(), name, date)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, result, http.StatusOK)
}

func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), userID, req)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}

	middlewares.RespondJSON(c, gin.H{
		"message":       "Appointment booked successfully",
		"appointment":   appointment,
		"token":         appointment.Token,
		"reportingTime": appointment.ReportingTime,
		"time":          appointment.Time,
	}, http.StatusCreated)
}

func (h *AppointmentHandler) GetMyAppointments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	appointments, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointments, http.StatusOK)
}

func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	appointment, err := h.service.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{
		"message":     "Appointment cancelled successfully",
		"appointment": appointment,
	}, http.StatusOK)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Appointment deleted"}, http.StatusOK)
}

// currentUser reads the id placed in the context by TokenAuthMiddleware. The
// response is already written when it reports false.
func currentUser(c *gin.Context) (int64, bool) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, "Unauthorized", http.StatusUnauthorized, err)
		return 0, false
	}
	return userID, true
}
