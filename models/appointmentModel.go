package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment model.
//
// Time is the wall-clock time the booking was submitted and is display only.
// ReportingTime is when the patient should arrive, derived from the doctor's
// duty start and Token. The partial unique index keeps two live bookings of the
// same doctor and date from holding the same token.
type Appointment struct {
	ID            string    `gorm:"primaryKey;type:uuid;column:id" json:"id"`
	UserID        int64     `gorm:"column:user_id;not null;index" json:"userId"`
	DoctorName    string    `gorm:"column:doctor_name;not null;index:idx_doctor_date;uniqueIndex:idx_doctor_date_token,where:status <> 'cancelled'" json:"doctorName"`
	Date          string    `gorm:"column:date;not null;index:idx_doctor_date;uniqueIndex:idx_doctor_date_token,where:status <> 'cancelled'" json:"date"`
	Day           string    `gorm:"column:day;not null" json:"day"`
	Time          string    `gorm:"column:time" json:"time"`
	Token         int       `gorm:"column:token;not null;uniqueIndex:idx_doctor_date_token,where:status <> 'cancelled'" json:"token"`
	ReportingTime string    `gorm:"column:reporting_time;not null" json:"reportingTime"`
	Reason        string    `gorm:"column:reason" json:"reason"`
	Status        string    `gorm:"column:status;check:status IN ('scheduled', 'completed', 'cancelled');not null;default:scheduled" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return nil
}

// IsCancelled reports whether the appointment has been cancelled.
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// ValidStatus reports whether s is one of the known appointment states.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
