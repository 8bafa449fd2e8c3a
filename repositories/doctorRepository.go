package repositories

import (
	"Appointo/cache"
	"Appointo/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	DoctorCacheExpiry = 7 * 24 * time.Hour
	doctorsCacheKey   = "doctors_cache"
)

var ErrDoctorExists = errors.New("doctor with the same name already exists")

type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByName(ctx context.Context, name string) (*models.Doctor, error)
	GetByID(ctx context.Context, id uint) (*models.Doctor, error)
	GetAll(ctx context.Context) ([]models.Doctor, error)
	Update(ctx context.Context, doctor *models.Doctor) error
	DeleteByName(ctx context.Context, name string) (bool, error)
}

type doctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) DoctorRepository {
	return &doctorRepository{db: db, cache: cache}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	err := r.db.WithContext(ctx).Create(doctor).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDoctorExists
	}
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	r.invalidate(ctx, doctor.Name)
	return nil
}

// GetByName returns nil with a nil error when no doctor has that name.
func (r *doctorRepository) GetByName(ctx context.Context, name string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getDoctorCacheKey(name)
	var cached models.Doctor
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		log.Warn().Err(err).Str("doctor", name).Msg("failed to get doctor from cache")
	} else if hit {
		return &cached, nil
	}

	var doctor models.Doctor
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, doctor, DoctorCacheExpiry); err != nil {
		log.Warn().Err(err).Str("doctor", name).Msg("failed to set doctor in cache")
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetAll(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cached []models.Doctor
	if hit, err := r.cache.GetJSON(ctx, doctorsCacheKey, &cached); err != nil {
		log.Warn().Err(err).Msg("failed to get doctors from cache")
	} else if hit {
		return cached, nil
	}

	doctors := []models.Doctor{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("failed to get all doctors: %w", err)
	}

	if err := r.cache.SetJSON(ctx, doctorsCacheKey, doctors, DoctorCacheExpiry); err != nil {
		log.Warn().Err(err).Msg("failed to set doctors in cache")
	}
	return doctors, nil
}

// Update saves every column of doctor. The previous name's cache entry is
// dropped as well so a rename does not leave a stale record behind.
func (r *doctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	var previous models.Doctor
	if err := r.db.WithContext(ctx).Select("id, name").First(&previous, "id = ?", doctor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gorm.ErrRecordNotFound
		}
		return fmt.Errorf("failed to load doctor: %w", err)
	}

	err := r.db.WithContext(ctx).Save(doctor).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDoctorExists
	}
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	r.invalidate(ctx, previous.Name, doctor.Name)
	return nil
}

// DeleteByName reports whether a doctor was removed.
func (r *doctorRepository) DeleteByName(ctx context.Context, name string) (bool, error) {
	result := r.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Doctor{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete doctor: %w", result.Error)
	}
	r.invalidate(ctx, name)
	return result.RowsAffected > 0, nil
}

func (r *doctorRepository) invalidate(ctx context.Context, names ...string) {
	keys := []string{doctorsCacheKey}
	for _, name := range names {
		keys = append(keys, r.getDoctorCacheKey(name))
	}
	if err := r.cache.DeleteBatch(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate doctor cache")
	}
}

func (r *doctorRepository) getDoctorCacheKey(name string) string {
	return fmt.Sprintf("doctor_cache:%s", name)
}
