package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/validation"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Create registers a patient owned by the calling user.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		UserID:         ownerID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	}

	if err := s.validate(ctx, patient); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Get resolves a patient for its owner; anyone else gets NotFound.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id, ownerID)
}

// List returns only the caller's own patients.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*model.Patient, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = req.MedicalHistory
	}

	if err := s.validate(ctx, patient); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Delete removes the patient and, in the same transaction, every mapping
// referencing it.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// validate applies the registry's field rules. Uniqueness excludes the
// record itself so an update that keeps the same email is not a conflict.
func (s *Service) validate(ctx context.Context, patient *model.Patient) error {
	if !validation.Phone(patient.Phone) {
		return apperrors.Validation("phone", validation.PhoneMessage)
	}

	if patient.DateOfBirth.IsZero() {
		return apperrors.Validation("date_of_birth", "date of birth is required")
	}
	if patient.DateOfBirth.After(model.Today()) {
		return apperrors.Validation("date_of_birth", "date of birth cannot be in future")
	}

	if !validation.Email(patient.Email) {
		return apperrors.Validation("email", validation.EmailMessage)
	}
	taken, err := s.repo.EmailExists(ctx, patient.Email, patient.ID)
	if err != nil {
		return fmt.Errorf("failed to check patient email: %w", err)
	}
	if taken {
		return apperrors.Validation("email", fmt.Sprintf("a patient with email : %s already exists", patient.Email))
	}

	return nil
}
