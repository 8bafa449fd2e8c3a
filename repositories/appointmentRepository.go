package repositories

import (
	"Appointo/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrTokenTaken is returned by Create when another live booking already holds
// the token for the same doctor and date.
var ErrTokenTaken = errors.New("token already taken for this doctor and date")

type AppointmentRepository interface {
	OccupiedTokens(ctx context.Context, doctorName, date string, includeCancelled bool) ([]int, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	ListByUser(ctx context.Context, userID int64) ([]models.Appointment, error)
	GetForUser(ctx context.Context, id string, userID int64) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, userID int64, status string) (bool, error)
	DeleteForUser(ctx context.Context, id string, userID int64) (bool, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// OccupiedTokens lists the tokens held on a doctor's date. Cancelled bookings
// are included only when includeCancelled is set.
func (r *appointmentRepository) OccupiedTokens(ctx context.Context, doctorName, date string, includeCancelled bool) ([]int, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_name = ? AND date = ?", doctorName, date)
	if !includeCancelled {
		query = query.Where("status <> ?", models.StatusCancelled)
	}

	tokens := []int{}
	if err := query.Pluck("token", &tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to load booked tokens: %w", err)
	}
	return tokens, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if !models.ValidStatus(appointment.Status) && appointment.Status != "" {
		return errors.New("invalid status value")
	}

	err := r.db.WithContext(ctx).Create(appointment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrTokenTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// ListByUser returns the user's appointments, newest first.
func (r *appointmentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Appointment, error) {
	appointments := []models.Appointment{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// GetForUser returns nil with a nil error when the appointment does not exist
// or belongs to someone else.
func (r *appointmentRepository) GetForUser(ctx context.Context, id string, userID int64) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		First(&appointment, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// UpdateStatus moves an owned appointment to status. It reports false when no
// row changed, including when the appointment already had that status.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, userID int64, status string) (bool, error) {
	if !models.ValidStatus(status) {
		return false, errors.New("invalid status value")
	}

	result := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND user_id = ? AND status <> ?", id, userID, status).
		Update("status", status)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, ErrTokenTaken
		}
		return false, fmt.Errorf("failed to update appointment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *appointmentRepository) DeleteForUser(ctx context.Context, id string, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Appointment{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete appointment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
