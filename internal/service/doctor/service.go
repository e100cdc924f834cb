package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/validation"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

const (
	activeDoctorsKey = "doctors:active"
	cacheTTL         = 5 * time.Minute
)

// Service manages the doctor directory. The active-doctor listing is
// cached in process and flushed on every mutation.
type Service struct {
	repo  repository.DoctorRepository
	cache *cache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, 10*time.Minute),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Email:          req.Email,
		License:        req.License,
		Address:        req.Address,
		IsActive:       true,
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if err := s.validate(ctx, doctor); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	s.cache.Delete(activeDoctorsKey)
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

// ListActive returns doctors with is_active set, serving repeated calls
// from cache.
func (s *Service) ListActive(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(activeDoctorsKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(activeDoctorsKey, doctors, cache.DefaultExpiration)
	return doctors, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		doctor.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		doctor.LastName = *req.LastName
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.License != nil {
		doctor.License = *req.License
	}
	if req.Address != nil {
		doctor.Address = *req.Address
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if err := s.validate(ctx, doctor); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}

	s.cache.Delete(activeDoctorsKey)
	return doctor, nil
}

// Delete removes the doctor and cascades to every mapping referencing it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(activeDoctorsKey)
	return nil
}

// validate applies the directory's field rules. An update re-submitting
// the doctor's own current email is not a conflict.
func (s *Service) validate(ctx context.Context, doctor *model.Doctor) error {
	if !validation.Phone(doctor.Phone) {
		return apperrors.Validation("phone", validation.PhoneMessage)
	}

	if !validation.Email(doctor.Email) {
		return apperrors.Validation("email", validation.EmailMessage)
	}
	taken, err := s.repo.EmailExists(ctx, doctor.Email, doctor.ID)
	if err != nil {
		return fmt.Errorf("failed to check doctor email: %w", err)
	}
	if taken {
		return apperrors.Validation("email", fmt.Sprintf("a doctor with this email : %s already exists", doctor.Email))
	}

	return nil
}
