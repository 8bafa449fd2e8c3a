package handlers

import (
	"Appointo/middlewares"
	"Appointo/models"
	"Appointo/services"
	"Appointo/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service services.DoctorService
}

func NewDoctorHandler(service services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// doctorResponse adds the combined duty time the admin page edits.
type doctorResponse struct {
	models.Doctor
	DutyTime string `json:"dutyTime"`
}

func toDoctorResponse(d *models.Doctor) doctorResponse {
	return doctorResponse{Doctor: *d, DutyTime: d.DutyTime()}
}

func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var in utils.DoctorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	doctor, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, toDoctorResponse(doctor), http.StatusCreated)
}

func (h *DoctorHandler) GetDoctorByName(c *gin.Context) {
	doctor, err := h.service.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, toDoctorResponse(doctor), http.StatusOK)
}

func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}

	out := make([]doctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, toDoctorResponse(&doctors[i]))
	}
	middlewares.RespondJSON(c, out, http.StatusOK)
}

func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		middlewares.HttpError(c, "Invalid doctor ID", http.StatusBadRequest, err)
		return
	}

	var in utils.DoctorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	doctor, err := h.service.Update(c.Request.Context(), uint(id), in)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, toDoctorResponse(doctor), http.StatusOK)
}

func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	if err := h.service.DeleteByName(c.Request.Context(), c.Param("name")); err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Doctor deleted"}, http.StatusOK)
}
