package controllers

import (
	"Appointo/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPatientRoutes mounts the appointment routes a logged in patient uses.
func SetupPatientRoutes(api *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler, requireUser gin.HandlerFunc) {
	appointments := api.Group("/appointments", requireUser)
	{
		appointments.POST("", appointmentHandler.BookAppointment)
		appointments.GET("", appointmentHandler.GetMyAppointments)
		appointments.PUT("/cancel/:id", appointmentHandler.CancelAppointment)
		appointments.DELETE("/:id", appointmentHandler.DeleteAppointment)
	}
}

// SetupDoctorRoutes mounts the public doctor routes and the admin ones guarded
// by requireAdmin.
func SetupDoctorRoutes(api *gin.RouterGroup, doctorHandler *handlers.DoctorHandler, appointmentHandler *handlers.AppointmentHandler, requireAdmin gin.HandlerFunc) {
	doctors := api.Group("/doctors")
	{
		// registered before /:name so "availability" is not taken as a name
		doctors.GET("/availability", appointmentHandler.CheckAvailability)
		doctors.GET("", doctorHandler.GetAllDoctors)
		doctors.GET("/:name", doctorHandler.GetDoctorByName)

		doctors.POST("", requireAdmin, doctorHandler.CreateDoctor)
		doctors.PUT("/:id", requireAdmin, doctorHandler.UpdateDoctor)
		doctors.DELETE("/:name", requireAdmin, doctorHandler.DeleteDoctor)
	}
}
