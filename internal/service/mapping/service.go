package mapping

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

// Error messages surfaced by the authorization pipeline.
const (
	msgAlreadyAssigned = "this patient is already assigned to this doctor"
	msgNoPermission    = "you don't have permission to assign doctors to this patient"
	msgNoViewPerm      = "you don't have permission to view this patient's doctors"
	msgFutureDate      = "appointment date cannot be in the future"
	msgPairImmutable   = "the patient and doctor of a mapping cannot be changed"
)

type Service struct {
	repo        repository.MappingRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
}

func NewService(repo repository.MappingRepository, patientRepo repository.PatientRepository, doctorRepo repository.DoctorRepository) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
	}
}

// authorize is the decision pipeline consulted before every mapping
// mutation. Checks run in a fixed order (existence, pairwise uniqueness,
// ownership, temporal) and the first failure is the one reported.
// excludeID skips the row being updated, which makes re-affirming the
// same pair on update a no-op rather than an "already assigned" failure.
func (s *Service) authorize(ctx context.Context, callerID, patientID, doctorID uuid.UUID, date model.Date, excludeID uuid.UUID) error {
	checks := []func(context.Context) error{
		func(ctx context.Context) error {
			exists, err := s.patientRepo.Exists(ctx, patientID)
			if err != nil {
				return fmt.Errorf("failed to resolve patient: %w", err)
			}
			if !exists {
				return apperrors.Validation("patient", "patient not found")
			}
			exists, err = s.doctorRepo.Exists(ctx, doctorID)
			if err != nil {
				return fmt.Errorf("failed to resolve doctor: %w", err)
			}
			if !exists {
				return apperrors.Validation("doctor", "doctor not found")
			}
			return nil
		},
		func(ctx context.Context) error {
			assigned, err := s.repo.PairExists(ctx, patientID, doctorID, excludeID)
			if err != nil {
				return fmt.Errorf("failed to check assignment: %w", err)
			}
			if assigned {
				return apperrors.ValidationMsg(msgAlreadyAssigned)
			}
			return nil
		},
		func(ctx context.Context) error {
			ownerID, err := s.patientRepo.OwnerOf(ctx, patientID)
			if err != nil {
				return fmt.Errorf("failed to resolve patient owner: %w", err)
			}
			if ownerID != callerID {
				return apperrors.Permission(msgNoPermission)
			}
			return nil
		},
		func(ctx context.Context) error {
			if date.After(model.Today()) {
				return apperrors.Validation("appointment_date", msgFutureDate)
			}
			return nil
		},
	}

	for _, check := range checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Create validates and persists a new patient-doctor mapping. The
// repository's uniqueness constraints remain the final arbiter for
// concurrent creations that race past the pipeline's pre-check.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, req *model.CreateMappingRequest) (*model.Mapping, error) {
	if req.AppointmentTime.IsZero() {
		return nil, apperrors.Validation("appointment_time", "this field is required")
	}

	date := model.Today()
	if req.AppointmentDate != nil && !req.AppointmentDate.IsZero() {
		date = *req.AppointmentDate
	}

	if err := s.authorize(ctx, callerID, req.PatientID, req.DoctorID, date, uuid.Nil); err != nil {
		return nil, err
	}

	mapping := &model.Mapping{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		AppointmentTime: req.AppointmentTime,
		Symptoms:        req.Symptoms,
		Diagnosis:       req.Diagnosis,
		Prescription:    req.Prescription,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, mapping); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, mapping.ID, callerID)
}

// Get returns a mapping visible to the caller. Non-owners get NotFound;
// existence is never confirmed to them.
func (s *Service) Get(ctx context.Context, callerID, id uuid.UUID) (*model.Mapping, error) {
	return s.repo.Get(ctx, id, callerID)
}

// List returns every mapping whose patient belongs to the caller.
func (s *Service) List(ctx context.Context, callerID uuid.UUID) ([]*model.Mapping, error) {
	return s.repo.List(ctx, callerID)
}

// ListForPatient returns the mappings of one patient. The three outcomes
// are distinct: missing patient is NotFound, someone else's patient is a
// permission failure, and an assigned-to-nobody patient is an empty list.
func (s *Service) ListForPatient(ctx context.Context, callerID, patientID uuid.UUID) ([]*model.Mapping, error) {
	exists, err := s.patientRepo.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("patient")
	}

	ownerID, err := s.patientRepo.OwnerOf(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patient owner: %w", err)
	}
	if ownerID != callerID {
		return nil, apperrors.Permission(msgNoViewPerm)
	}

	return s.repo.ListForPatient(ctx, patientID)
}

// Update amends the clinical fields of a mapping through the same
// validated pathway as creation. The (patient, doctor) pair is immutable;
// re-submitting the existing pair is accepted as a no-op.
func (s *Service) Update(ctx context.Context, callerID, id uuid.UUID, req *model.UpdateMappingRequest) (*model.Mapping, error) {
	mapping, err := s.repo.Get(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.PatientID != nil && *req.PatientID != mapping.PatientID {
		return nil, apperrors.ValidationMsg(msgPairImmutable)
	}
	if req.DoctorID != nil && *req.DoctorID != mapping.DoctorID {
		return nil, apperrors.ValidationMsg(msgPairImmutable)
	}

	if err := s.authorize(ctx, callerID, mapping.PatientID, mapping.DoctorID, mapping.AppointmentDate, mapping.ID); err != nil {
		return nil, err
	}

	if req.Symptoms != nil {
		mapping.Symptoms = *req.Symptoms
	}
	if req.Diagnosis != nil {
		mapping.Diagnosis = *req.Diagnosis
	}
	if req.Prescription != nil {
		mapping.Prescription = *req.Prescription
	}
	if req.IsActive != nil {
		mapping.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, mapping); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id, callerID)
}

// Delete removes a mapping owned by the caller. The row ceases to exist;
// there is no soft-delete transition.
func (s *Service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, callerID)
}
