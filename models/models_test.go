package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctor_Schedule(t *testing.T) {
	d := Doctor{
		Name:                  "Dr. Salini",
		AvailableDays:         []string{"Monday", "Tuesday"},
		DutyStart:             "10:00 AM",
		DutyEnd:               "2:00 PM",
		MaxAppointmentsPerDay: 12,
	}

	s, err := d.Schedule()
	require.NoError(t, err)
	assert.Equal(t, 12, s.MaxPerDay)
	assert.Equal(t, 10, s.Duty.Start.Hour)
	assert.Equal(t, 14, s.Duty.End.Hour)
	assert.True(t, s.OpenOn("Tuesday"))
	assert.False(t, s.OpenOn("Sunday"))
	assert.Equal(t, "10:00 AM - 2:00 PM", d.DutyTime())

	d.DutyEnd = "garbage"
	_, err = d.Schedule()
	assert.Error(t, err)
}

func TestAppointment_BeforeCreate(t *testing.T) {
	a := &Appointment{}
	require.NoError(t, a.BeforeCreate(nil))

	_, err := uuid.Parse(a.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusScheduled, a.Status)

	b := &Appointment{ID: "fixed", Status: StatusCancelled}
	require.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, "fixed", b.ID)
	assert.True(t, b.IsCancelled())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("scheduled"))
	assert.True(t, ValidStatus("completed"))
	assert.True(t, ValidStatus("cancelled"))
	assert.False(t, ValidStatus("fulfilled"))
}
