package models

import (
	"Appointo/scheduling"
	"time"

	"github.com/lib/pq"
)

// Doctor model. Name is the key appointments refer to; renaming a doctor
// leaves earlier appointments pointing at the old name.
type Doctor struct {
	ID                    uint           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name                  string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Department            string         `gorm:"column:department;not null;index" json:"department"`
	AvailableDays         pq.StringArray `gorm:"column:available_days;type:text[];not null" json:"availableDays"`
	DutyStart             string         `gorm:"column:duty_start;not null" json:"dutyStart"`
	DutyEnd               string         `gorm:"column:duty_end;not null" json:"dutyEnd"`
	MaxAppointmentsPerDay int            `gorm:"column:max_appointments_per_day;not null;check:max_appointments_per_day >= 0" json:"maxAppointmentsPerDay"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Doctor) TableName() string {
	return "doctor"
}

// DutyTime renders the duty window in the combined "10:00 AM - 2:00 PM" form.
func (d *Doctor) DutyTime() string {
	return d.DutyStart + " - " + d.DutyEnd
}

// Schedule converts the stored record into the allocator's view of it.
func (d *Doctor) Schedule() (scheduling.Schedule, error) {
	duty, err := scheduling.NewDutyWindow(d.DutyStart, d.DutyEnd)
	if err != nil {
		return scheduling.Schedule{}, err
	}
	return scheduling.Schedule{
		AvailableDays: d.AvailableDays,
		Duty:          duty,
		MaxPerDay:     d.MaxAppointmentsPerDay,
	}, nil
}
