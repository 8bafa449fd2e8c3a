package services

import (
	"Appointo/models"
	"Appointo/repositories"
	"Appointo/scheduling"
	"Appointo/utils"
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type DoctorService interface {
	Create(ctx context.Context, in utils.DoctorInput) (*models.Doctor, error)
	GetByName(ctx context.Context, name string) (*models.Doctor, error)
	GetAll(ctx context.Context) ([]models.Doctor, error)
	Update(ctx context.Context, id uint, in utils.DoctorInput) (*models.Doctor, error)
	DeleteByName(ctx context.Context, name string) error
}

type doctorService struct {
	repository repositories.DoctorRepository
}

func NewDoctorService(repository repositories.DoctorRepository) DoctorService {
	return &doctorService{repository: repository}
}

func (s *doctorService) Create(ctx context.Context, in utils.DoctorInput) (*models.Doctor, error) {
	doctor, err := buildDoctor(in)
	if err != nil {
		return nil, err
	}

	if err := s.repository.Create(ctx, doctor); err != nil {
		if errors.Is(err, repositories.ErrDoctorExists) {
			return nil, newError(KindConflict, ReasonDoctorExists, "Doctor with this name already exists")
		}
		log.Error().Err(err).Str("doctor", doctor.Name).Msg("failed to create doctor")
		return nil, internalError("failed to add doctor", err)
	}
	log.Info().Str("doctor", doctor.Name).Msg("doctor added")
	return doctor, nil
}

func (s *doctorService) GetByName(ctx context.Context, name string) (*models.Doctor, error) {
	doctor, err := s.repository.GetByName(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("doctor", name).Msg("failed to load doctor")
		return nil, internalError("failed to load doctor", err)
	}
	if doctor == nil {
		return nil, newError(KindNotFound, ReasonDoctorNotFound, "Doctor not found")
	}
	return doctor, nil
}

func (s *doctorService) GetAll(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.repository.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list doctors")
		return nil, internalError("Error fetching doctors", err)
	}
	return doctors, nil
}

// Update replaces the doctor's details. Existing appointments keep the name and
// reporting times they were booked with.
func (s *doctorService) Update(ctx context.Context, id uint, in utils.DoctorInput) (*models.Doctor, error) {
	existing, err := s.repository.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Uint("doctor_id", id).Msg("failed to load doctor")
		return nil, internalError("failed to update doctor", err)
	}
	if existing == nil {
		return nil, newError(KindNotFound, ReasonDoctorNotFound, "Doctor not found")
	}

	if strings.TrimSpace(in.Name) == "" {
		in.Name = existing.Name
	}
	doctor, err := buildDoctor(in)
	if err != nil {
		return nil, err
	}
	doctor.ID = existing.ID
	doctor.CreatedAt = existing.CreatedAt

	if err := s.repository.Update(ctx, doctor); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDoctorExists):
			return nil, newError(KindConflict, ReasonDoctorExists, "Doctor with this name already exists")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, newError(KindNotFound, ReasonDoctorNotFound, "Doctor not found")
		}
		log.Error().Err(err).Uint("doctor_id", id).Msg("failed to update doctor")
		return nil, internalError("failed to update doctor", err)
	}
	return doctor, nil
}

func (s *doctorService) DeleteByName(ctx context.Context, name string) error {
	deleted, err := s.repository.DeleteByName(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("doctor", name).Msg("failed to delete doctor")
		return internalError("Error deleting doctor", err)
	}
	if !deleted {
		return newError(KindNotFound, ReasonDoctorNotFound, "Doctor not found")
	}
	log.Info().Str("doctor", name).Msg("doctor deleted")
	return nil
}

// buildDoctor validates in and normalizes weekday names and the duty window.
func buildDoctor(in utils.DoctorInput) (*models.Doctor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Department = strings.TrimSpace(in.Department)
	if err := utils.ValidateDoctor(in); err != nil {
		return nil, validationError(ReasonInvalidInput, err)
	}

	duty, err := scheduling.ParseDutyWindow(in.DutyTime)
	if err != nil {
		return nil, validationError(ReasonInvalidDutyTime, err)
	}

	days := make([]string, 0, len(in.AvailableDays))
	seen := make(map[string]bool, len(in.AvailableDays))
	for _, d := range in.AvailableDays {
		day, _ := scheduling.CanonicalWeekday(d)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	return &models.Doctor{
		Name:                  in.Name,
		Department:            in.Department,
		AvailableDays:         days,
		DutyStart:             duty.Start.String(),
		DutyEnd:               duty.End.String(),
		MaxAppointmentsPerDay: *in.MaxAppointmentsPerDay,
	}, nil
}
