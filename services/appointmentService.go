package services

import (
	"Appointo/database"
	"Appointo/models"
	"Appointo/repositories"
	"Appointo/scheduling"
	"Appointo/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier is told about bookings and cancellations after they are stored.
type Notifier interface {
	AppointmentBooked(n utils.AppointmentNotice)
	AppointmentCancelled(n utils.AppointmentNotice)
}

// AppointmentConfig tunes the admission controller.
type AppointmentConfig struct {
	SlotLength time.Duration
	// ReclaimCancelled lets a new booking take the token of a cancelled one.
	// When false every booking on the date occupies capacity.
	ReclaimCancelled bool
	// MaxRetries bounds how often admission re-reads the occupied tokens after
	// losing a race on the unique token index.
	MaxRetries int
	Location   *time.Location
}

// BookingRequest is what a patient submits to book a slot.
type BookingRequest struct {
	DoctorName string `json:"doctorName"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

// AvailabilityResult previews the next booking for a doctor on a date.
type AvailabilityResult struct {
	Available            bool   `json:"available"`
	Day                  string `json:"day"`
	AvailableSlots       int    `json:"availableSlots"`
	ExistingAppointments int    `json:"existingAppointments"`
	MaxAppointments      int    `json:"maxAppointments"`
	NextToken            int    `json:"nextToken"`
	ReportingTime        string `json:"reportingTime"`
}

type AppointmentService interface {
	Availability(ctx context.Context, doctorName, date string) (*AvailabilityResult, error)
	Book(ctx context.Context, userID int64, req BookingRequest) (*models.Appointment, error)
	ListMine(ctx context.Context, userID int64) ([]models.Appointment, error)
	Cancel(ctx context.Context, userID int64, id string) (*models.Appointment, error)
	Delete(ctx context.Context, userID int64, id string) error
}

type appointmentService struct {
	appointments repositories.AppointmentRepository
	doctors      repositories.DoctorRepository
	users        repositories.UserRepository
	locker       database.Locker
	notifier     Notifier
	allocator    scheduling.Allocator
	cfg          AppointmentConfig
	now          func() time.Time
}

func NewAppointmentService(
	appointments repositories.AppointmentRepository,
	doctors repositories.DoctorRepository,
	users repositories.UserRepository,
	locker database.Locker,
	notifier Notifier,
	cfg AppointmentConfig,
) AppointmentService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &appointmentService{
		appointments: appointments,
		doctors:      doctors,
		users:        users,
		locker:       locker,
		notifier:     notifier,
		allocator:    scheduling.NewAllocator(cfg.SlotLength),
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *appointmentService) Availability(ctx context.Context, doctorName, date string) (*AvailabilityResult, error) {
	doctor, schedule, day, err := s.resolve(ctx, doctorName, date)
	if err != nil {
		return nil, err
	}
	date = day.Format(scheduling.DateLayout)

	occupied, err := s.appointments.OccupiedTokens(ctx, doctor.Name, date, !s.cfg.ReclaimCancelled)
	if err != nil {
		log.Error().Err(err).Str("doctor", doctor.Name).Str("date", date).Msg("failed to count appointments")
		return nil, internalError("failed to check availability", err)
	}

	preview := s.allocator.Preview(schedule, day, occupied)
	if !preview.Available {
		return nil, newError(KindRejected, ReasonNotAvailableThatDay,
			fmt.Sprintf("Doctor is not available on %s", preview.Day))
	}

	return &AvailabilityResult{
		Available:            true,
		Day:                  preview.Day,
		AvailableSlots:       preview.AvailableSlots,
		ExistingAppointments: preview.Existing,
		MaxAppointments:      preview.MaxPerDay,
		NextToken:            preview.NextToken,
		ReportingTime:        preview.ReportingTime.String(),
	}, nil
}

// Book admits a booking under the (doctor, date) lock. The occupied tokens are
// read inside the lock and the insert relies on the unique token index, so a
// lost race against another instance is retried with a fresh read.
func (s *appointmentService) Book(ctx context.Context, userID int64, req BookingRequest) (*models.Appointment, error) {
	doctor, schedule, day, err := s.resolve(ctx, req.DoctorName, req.Date)
	if err != nil {
		return nil, err
	}
	date := day.Format(scheduling.DateLayout)

	appointment, err := s.admit(ctx, userID, doctor, schedule, day, date, req.Reason)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("doctor", doctor.Name).
		Str("date", date).
		Int("token", appointment.Token).
		Msg("appointment booked")
	s.notify(ctx, userID, appointment, false)
	return appointment, nil
}

// admit holds the admission lock only for the read-allocate-insert cycle.
func (s *appointmentService) admit(
	ctx context.Context,
	userID int64,
	doctor *models.Doctor,
	schedule scheduling.Schedule,
	day time.Time,
	date, reason string,
) (*models.Appointment, error) {
	key := admissionLockKey(doctor.Name, date)
	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("lock", key).Msg("failed to acquire admission lock")
		return nil, &Error{Kind: KindInternal, Reason: ReasonBookingBusy, Message: "booking is busy, please retry", Err: err}
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		occupied, err := s.appointments.OccupiedTokens(ctx, doctor.Name, date, !s.cfg.ReclaimCancelled)
		if err != nil {
			log.Error().Err(err).Str("doctor", doctor.Name).Str("date", date).Msg("failed to count appointments")
			return nil, internalError("failed to book appointment", err)
		}

		now := s.now().In(s.cfg.Location)
		admission, err := s.allocator.Admit(schedule, day, now, occupied)
		if err != nil {
			return nil, rejection(err, admission.Day)
		}

		appointment := &models.Appointment{
			UserID:        userID,
			DoctorName:    doctor.Name,
			Date:          date,
			Day:           admission.Day,
			Time:          scheduling.ClockOf(now).String(),
			Token:         admission.Token,
			ReportingTime: admission.ReportingTime.String(),
			Reason:        strings.TrimSpace(reason),
			Status:        models.StatusScheduled,
		}

		err = s.appointments.Create(ctx, appointment)
		if err == nil {
			return appointment, nil
		}
		if !errors.Is(err, repositories.ErrTokenTaken) {
			log.Error().Err(err).Str("doctor", doctor.Name).Str("date", date).Msg("failed to store appointment")
			return nil, internalError("failed to book appointment", err)
		}
		if attempt >= s.cfg.MaxRetries {
			log.Warn().Str("doctor", doctor.Name).Str("date", date).Int("attempts", attempt).Msg("admission kept losing token races")
			return nil, &Error{Kind: KindConflict, Reason: ReasonBookingBusy, Message: "booking is busy, please retry", Err: err}
		}
		log.Debug().Str("doctor", doctor.Name).Str("date", date).Int("token", appointment.Token).Msg("token taken, retrying admission")
	}
}

func (s *appointmentService) ListMine(ctx context.Context, userID int64) ([]models.Appointment, error) {
	appointments, err := s.appointments.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list appointments")
		return nil, internalError("failed to fetch appointments", err)
	}
	return appointments, nil
}

func (s *appointmentService) Cancel(ctx context.Context, userID int64, id string) (*models.Appointment, error) {
	if !validAppointmentID(id) {
		return nil, newError(KindNotFound, ReasonAppointmentNotFound, "Appointment not found")
	}
	appointment, err := s.appointments.GetForUser(ctx, id, userID)
	if err != nil {
		log.Error().Err(err).Str("appointment", id).Msg("failed to load appointment")
		return nil, internalError("failed to cancel appointment", err)
	}
	if appointment == nil {
		return nil, newError(KindNotFound, ReasonAppointmentNotFound, "Appointment not found")
	}
	if appointment.IsCancelled() {
		return nil, newError(KindRejected, ReasonAlreadyCancelled, "Appointment already cancelled")
	}

	changed, err := s.appointments.UpdateStatus(ctx, id, userID, models.StatusCancelled)
	if err != nil {
		log.Error().Err(err).Str("appointment", id).Msg("failed to cancel appointment")
		return nil, internalError("failed to cancel appointment", err)
	}
	if !changed {
		// cancelled or deleted concurrently
		return nil, newError(KindRejected, ReasonAlreadyCancelled, "Appointment already cancelled")
	}

	appointment.Status = models.StatusCancelled
	s.notify(ctx, userID, appointment, true)
	return appointment, nil
}

func (s *appointmentService) Delete(ctx context.Context, userID int64, id string) error {
	if !validAppointmentID(id) {
		return newError(KindNotFound, ReasonAppointmentNotFound, "Appointment not found")
	}
	deleted, err := s.appointments.DeleteForUser(ctx, id, userID)
	if err != nil {
		log.Error().Err(err).Str("appointment", id).Msg("failed to delete appointment")
		return internalError("failed to delete appointment", err)
	}
	if !deleted {
		return newError(KindNotFound, ReasonAppointmentNotFound, "Appointment not found")
	}
	return nil
}

// resolve validates the request inputs and loads the doctor's schedule.
func (s *appointmentService) resolve(ctx context.Context, doctorName, date string) (*models.Doctor, scheduling.Schedule, time.Time, error) {
	doctorName = strings.TrimSpace(doctorName)
	if doctorName == "" {
		return nil, scheduling.Schedule{}, time.Time{}, newError(KindValidation, ReasonInvalidInput, "doctor name is required")
	}
	day, err := scheduling.ParseDate(date, s.cfg.Location)
	if err != nil {
		return nil, scheduling.Schedule{}, time.Time{}, validationError(ReasonInvalidDate, err)
	}

	doctor, err := s.doctors.GetByName(ctx, doctorName)
	if err != nil {
		log.Error().Err(err).Str("doctor", doctorName).Msg("failed to load doctor")
		return nil, scheduling.Schedule{}, time.Time{}, internalError("failed to load doctor", err)
	}
	if doctor == nil {
		return nil, scheduling.Schedule{}, time.Time{}, newError(KindNotFound, ReasonDoctorNotFound, "Doctor not found")
	}

	schedule, err := doctor.Schedule()
	if err != nil {
		log.Error().Err(err).Str("doctor", doctor.Name).Msg("doctor has a malformed duty time")
		return nil, scheduling.Schedule{}, time.Time{}, &Error{Kind: KindInternal, Reason: ReasonInvalidDutyTime, Message: "doctor's duty time is malformed", Err: err}
	}
	return doctor, schedule, day, nil
}

func (s *appointmentService) notify(ctx context.Context, userID int64, a *models.Appointment, cancelled bool) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("skipping appointment notice, user not loaded")
		return
	}
	notice := utils.AppointmentNotice{
		To:            user.Email,
		PatientName:   user.Name,
		DoctorName:    a.DoctorName,
		Date:          a.Date,
		Day:           a.Day,
		Token:         a.Token,
		ReportingTime: a.ReportingTime,
	}
	if cancelled {
		s.notifier.AppointmentCancelled(notice)
	} else {
		s.notifier.AppointmentBooked(notice)
	}
}

func rejection(err error, day string) error {
	switch {
	case errors.Is(err, scheduling.ErrNotAvailableThatDay):
		return newError(KindRejected, ReasonNotAvailableThatDay, fmt.Sprintf("Doctor is not available on %s", day))
	case errors.Is(err, scheduling.ErrDutyOver):
		return newError(KindRejected, ReasonDutyOverForToday, "Doctor's duty time is over for today. Cannot book appointment.")
	case errors.Is(err, scheduling.ErrFullyBooked):
		return newError(KindRejected, ReasonFullyBooked, "No more slots available for this doctor on the selected date")
	}
	return internalError("failed to book appointment", err)
}

// validAppointmentID rejects ids the uuid column could never hold.
func validAppointmentID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func admissionLockKey(doctorName, date string) string {
	return fmt.Sprintf("admission_lock:%s:%s", doctorName, date)
}
