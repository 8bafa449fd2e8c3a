package services

import (
	"errors"
	"fmt"
)

// Kind groups service errors by how a caller should react to them.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindRejected     Kind = "rejected"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// Reasons are stable, machine-checkable causes carried alongside the message.
const (
	ReasonDoctorNotFound      = "doctor_not_found"
	ReasonNotAvailableThatDay = "not_available_that_day"
	ReasonDutyOverForToday    = "duty_over_for_today"
	ReasonFullyBooked         = "fully_booked"
	ReasonAlreadyCancelled    = "already_cancelled"
	ReasonAppointmentNotFound = "appointment_not_found"
	ReasonInvalidDate         = "invalid_date"
	ReasonInvalidDutyTime     = "invalid_duty_time"
	ReasonInvalidInput        = "invalid_input"
	ReasonDoctorExists        = "doctor_exists"
	ReasonEmailTaken          = "email_taken"
	ReasonInvalidCredentials  = "invalid_credentials"
	ReasonUserNotFound        = "user_not_found"
	ReasonBookingBusy         = "booking_busy"
	ReasonInternal            = "internal_error"
)

// Error is the error type returned by every service.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

func internalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Reason: ReasonInternal, Message: message, Err: err}
}

func validationError(reason string, err error) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: err.Error(), Err: err}
}

// AsError extracts a service error from err. Anything else is reported as
// internal.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return internalError("internal server error", err)
}
