package services

import (
	"Appointo/utils"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doctorInput(name string) utils.DoctorInput {
	capacity := 10
	return utils.DoctorInput{
		Name:                  name,
		Department:            "Cardiology",
		AvailableDays:         []string{"monday", "Tuesday", "MONDAY"},
		DutyTime:              "10:00am - 2:00 pm",
		MaxAppointmentsPerDay: &capacity,
	}
}

func TestDoctorService_Create(t *testing.T) {
	svc := NewDoctorService(newMemDoctors())
	ctx := context.Background()

	d, err := svc.Create(ctx, doctorInput(" Dr. Salini "))
	require.NoError(t, err)
	assert.Equal(t, "Dr. Salini", d.Name)
	assert.Equal(t, []string{"Monday", "Tuesday"}, []string(d.AvailableDays))
	assert.Equal(t, "10:00 AM", d.DutyStart)
	assert.Equal(t, "2:00 PM", d.DutyEnd)
	assert.Equal(t, "10:00 AM - 2:00 PM", d.DutyTime())

	_, err = svc.Create(ctx, doctorInput("Dr. Salini"))
	requireReason(t, err, KindConflict, ReasonDoctorExists)
}

func TestDoctorService_CreateValidation(t *testing.T) {
	svc := NewDoctorService(newMemDoctors())
	ctx := context.Background()

	reversed := doctorInput("Dr. A")
	reversed.DutyTime = "2:00 PM - 10:00 AM"
	_, err := svc.Create(ctx, reversed)
	requireReason(t, err, KindValidation, ReasonInvalidDutyTime)

	garbled := doctorInput("Dr. A")
	garbled.DutyTime = "morning"
	_, err = svc.Create(ctx, garbled)
	requireReason(t, err, KindValidation, ReasonInvalidDutyTime)

	badDay := doctorInput("Dr. A")
	badDay.AvailableDays = []string{"Someday"}
	_, err = svc.Create(ctx, badDay)
	requireReason(t, err, KindValidation, ReasonInvalidInput)

	noName := doctorInput("  ")
	_, err = svc.Create(ctx, noName)
	requireReason(t, err, KindValidation, ReasonInvalidInput)
}

func TestDoctorService_UpdateAndDelete(t *testing.T) {
	repo := newMemDoctors()
	svc := NewDoctorService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, doctorInput("Dr. Salini"))
	require.NoError(t, err)

	in := doctorInput("")
	in.Department = "Neurology"
	in.DutyTime = "9:30 AM - 12:00 PM"
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Salini", updated.Name)
	assert.Equal(t, "Neurology", updated.Department)
	assert.Equal(t, "9:30 AM", updated.DutyStart)

	got, err := svc.GetByName(ctx, "Dr. Salini")
	require.NoError(t, err)
	assert.Equal(t, "Neurology", got.Department)

	_, err = svc.Update(ctx, 999, in)
	requireReason(t, err, KindNotFound, ReasonDoctorNotFound)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteByName(ctx, "Dr. Salini"))
	requireReason(t, svc.DeleteByName(ctx, "Dr. Salini"), KindNotFound, ReasonDoctorNotFound)

	_, err = svc.GetByName(ctx, "Dr. Salini")
	requireReason(t, err, KindNotFound, ReasonDoctorNotFound)
}

func TestDoctorService_RenameConflict(t *testing.T) {
	svc := NewDoctorService(newMemDoctors())
	ctx := context.Background()

	_, err := svc.Create(ctx, doctorInput("Dr. Salini"))
	require.NoError(t, err)
	arun, err := svc.Create(ctx, doctorInput("Dr. Arun"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, arun.ID, doctorInput("Dr. Salini"))
	requireReason(t, err, KindConflict, ReasonDoctorExists)
}
