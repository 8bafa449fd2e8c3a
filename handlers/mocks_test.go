package handlers

import (
	"Appointo/models"
	"Appointo/services"
	"Appointo/utils"
	"context"

	"github.com/stretchr/testify/mock"
)

type mockAppointmentService struct {
	mock.Mock
}

func (m *mockAppointmentService) Availability(ctx context.Context, doctorName, date string) (*services.AvailabilityResult, error) {
	args := m.Called(ctx, doctorName, date)
	result, _ := args.Get(0).(*services.AvailabilityResult)
	return result, args.Error(1)
}

func (m *mockAppointmentService) Book(ctx context.Context, userID int64, req services.BookingRequest) (*models.Appointment, error) {
	args := m.Called(ctx, userID, req)
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentService) ListMine(ctx context.Context, userID int64) ([]models.Appointment, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.Appointment)
	return list, args.Error(1)
}

func (m *mockAppointmentService) Cancel(ctx context.Context, userID int64, id string) (*models.Appointment, error) {
	args := m.Called(ctx, userID, id)
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentService) Delete(ctx context.Context, userID int64, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockDoctorService struct {
	mock.Mock
}

func (m *mockDoctorService) Create(ctx context.Context, in utils.DoctorInput) (*models.Doctor, error) {
	args := m.Called(ctx, in)
	d, _ := args.Get(0).(*models.Doctor)
	return d, args.Error(1)
}

func (m *mockDoctorService) GetByName(ctx context.Context, name string) (*models.Doctor, error) {
	args := m.Called(ctx, name)
	d, _ := args.Get(0).(*models.Doctor)
	return d, args.Error(1)
}

func (m *mockDoctorService) GetAll(ctx context.Context) ([]models.Doctor, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Doctor)
	return list, args.Error(1)
}

func (m *mockDoctorService) Update(ctx context.Context, id uint, in utils.DoctorInput) (*models.Doctor, error) {
	args := m.Called(ctx, id, in)
	d, _ := args.Get(0).(*models.Doctor)
	return d, args.Error(1)
}

func (m *mockDoctorService) DeleteByName(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Signup(ctx context.Context, in utils.SignupInput) (*services.Session, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*services.Session)
	return s, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, in utils.LoginInput) (*services.Session, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*services.Session)
	return s, args.Error(1)
}

func (m *mockUserService) Refresh(ctx context.Context, refreshToken string) (*services.Session, error) {
	args := m.Called(ctx, refreshToken)
	s, _ := args.Get(0).(*services.Session)
	return s, args.Error(1)
}

func (m *mockUserService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
