package services

import (
	"Appointo/models"
	"Appointo/repositories"
	"Appointo/utils"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// memAppointments mirrors the partial unique index on live tokens.
type memAppointments struct {
	mu      sync.Mutex
	rows    []models.Appointment
	seq     int
	failErr error
	// beforeCreate runs inside Create before the uniqueness check.
	beforeCreate func(m *memAppointments, a *models.Appointment)
}

func (m *memAppointments) OccupiedTokens(_ context.Context, doctorName, date string, includeCancelled bool) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	tokens := []int{}
	for _, r := range m.rows {
		if r.DoctorName == doctorName && r.Date == date && (includeCancelled || !r.IsCancelled()) {
			tokens = append(tokens, r.Token)
		}
	}
	return tokens, nil
}

func (m *memAppointments) Create(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeCreate != nil {
		hook := m.beforeCreate
		m.beforeCreate = nil
		hook(m, a)
	}
	for _, r := range m.rows {
		if r.DoctorName == a.DoctorName && r.Date == a.Date && r.Token == a.Token && !r.IsCancelled() {
			return repositories.ErrTokenTaken
		}
	}
	m.insert(a)
	return nil
}

// uuidColumn fails the way postgres does when a non-uuid is compared with
// the id column.
func uuidColumn(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid input syntax for type uuid: %q", id)
	}
	return nil
}

func (m *memAppointments) insert(a *models.Appointment) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m.seq++
	a.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	m.rows = append(m.rows, *a)
}

func (m *memAppointments) ListByUser(_ context.Context, userID int64) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memAppointments) GetForUser(_ context.Context, id string, userID int64) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := uuidColumn(id); err != nil {
		return nil, err
	}
	for _, r := range m.rows {
		if r.ID == id && r.UserID == userID {
			a := r
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memAppointments) UpdateStatus(_ context.Context, id string, userID int64, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := uuidColumn(id); err != nil {
		return false, err
	}
	for i, r := range m.rows {
		if r.ID == id && r.UserID == userID && r.Status != status {
			m.rows[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (m *memAppointments) DeleteForUser(_ context.Context, id string, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := uuidColumn(id); err != nil {
		return false, err
	}
	for i, r := range m.rows {
		if r.ID == id && r.UserID == userID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memDoctors struct {
	mu     sync.Mutex
	byName map[string]models.Doctor
	nextID uint
}

func newMemDoctors(doctors ...models.Doctor) *memDoctors {
	m := &memDoctors{byName: map[string]models.Doctor{}}
	for _, d := range doctors {
		d := d
		_ = m.Create(context.Background(), &d)
	}
	return m
}

func (m *memDoctors) Create(_ context.Context, d *models.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[d.Name]; ok {
		return repositories.ErrDoctorExists
	}
	m.nextID++
	d.ID = m.nextID
	m.byName[d.Name] = *d
	return nil
}

func (m *memDoctors) GetByName(_ context.Context, name string) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byName[name]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memDoctors) GetByID(_ context.Context, id uint) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byName {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

func (m *memDoctors) GetAll(_ context.Context) ([]models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Doctor{}
	for _, d := range m.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memDoctors) Update(_ context.Context, d *models.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var previous string
	for name, existing := range m.byName {
		if existing.ID == d.ID {
			previous = name
		}
	}
	if previous == "" {
		return gorm.ErrRecordNotFound
	}
	if other, ok := m.byName[d.Name]; ok && other.ID != d.ID {
		return repositories.ErrDoctorExists
	}
	delete(m.byName, previous)
	m.byName[d.Name] = *d
	return nil
}

func (m *memDoctors) DeleteByName(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[name]; !ok {
		return false, nil
	}
	delete(m.byName, name)
	return true, nil
}

type memUsers struct {
	mu     sync.Mutex
	users  []models.User
	nextID int64
}

func (m *memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	u, _ := m.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repositories.ErrEmailTaken
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users = append(m.users, *u)
	return nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) AppointmentBooked(n utils.AppointmentNotice) {
	m.Called(n)
}

func (m *mockNotifier) AppointmentCancelled(n utils.AppointmentNotice) {
	m.Called(n)
}
