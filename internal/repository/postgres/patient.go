package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, user_id, first_name, last_name, date_of_birth, gender,
			phone, email, address, medical_history, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	patient.Touch()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.UserID,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.MedicalHistory,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		if conflict := translateUnique(err, "a patient with this email already exists"); conflict != err {
			return conflict
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1 AND user_id = $2`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE user_id = $1 ORDER BY created_at`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
			phone = $5, email = $6, address = $7, medical_history = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.MedicalHistory,
		patient.UpdatedAt,
		patient.ID,
		patient.UserID,
	)
	if err != nil {
		if conflict := translateUnique(err, "a patient with this email already exists"); conflict != err {
			return conflict
		}
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient")
	}
	return nil
}

// Delete removes the patient and every mapping referencing it as one
// atomic unit.
func (r *patientRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM mappings WHERE patient_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete patient mappings: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM patients WHERE id = $1 AND user_id = $2`, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("patient")
		}
		return nil
	})
}

func (r *patientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check patient: %w", err)
	}
	return exists, nil
}

func (r *patientRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.db.GetContext(ctx, &ownerID,
		`SELECT user_id FROM patients WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, apperrors.NotFound("patient")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve patient owner: %w", err)
	}
	return ownerID, nil
}

func (r *patientRepository) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE email = $1 AND id != $2)`, email, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check patient email: %w", err)
	}
	return exists, nil
}
