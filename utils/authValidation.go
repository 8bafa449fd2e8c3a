package utils

import (
	"Appointo/scheduling"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one letter and one digit")
	ErrUnknownWeekday     = errors.New("must be a weekday name such as Monday")
)

var (
	letterRegex = regexp.MustCompile(`[A-Za-z]`)
	digitRegex  = regexp.MustCompile(`\d`)
)

// SignupInput is the body of a signup request.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DoctorInput is the body of an add or update doctor request. DutyTime is the
// combined "10:00 AM - 2:00 PM" form used by the admin page.
type DoctorInput struct {
	Name                  string   `json:"name"`
	Department            string   `json:"department"`
	AvailableDays         []string `json:"availableDays"`
	DutyTime              string   `json:"dutyTime"`
	MaxAppointmentsPerDay *int     `json:"maxAppointmentsPerDay"`
}

// ValidateSignup validates signup data using ozzo-validation.
func ValidateSignup(in SignupInput) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
	)
}

func ValidateLogin(in LoginInput) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
	)
}

// ValidateDoctor checks a doctor payload. The duty window is parsed by the
// caller; here it only has to be present.
func ValidateDoctor(in DoctorInput) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Department, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.AvailableDays, validation.Required, validation.Each(validation.By(validateWeekday))),
		validation.Field(&in.DutyTime, validation.Required),
		validation.Field(&in.MaxAppointmentsPerDay, validation.NotNil, validation.Min(0)),
	)
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}
	return nil
}

func validateWeekday(value interface{}) error {
	day, _ := value.(string)
	if _, ok := scheduling.CanonicalWeekday(day); !ok {
		return ErrUnknownWeekday
	}
	return nil
}
