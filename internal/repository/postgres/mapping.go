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

type mappingRepository struct {
	BaseRepository
}

func NewMappingRepository(db *sqlx.DB) repository.MappingRepository {
	return &mappingRepository{NewBaseRepository(db)}
}

const mappingColumns = `
	m.id, m.patient_id, m.doctor_id, m.appointment_date, m.appointment_time,
	m.symptoms, m.diagnosis, m.prescription, m.is_active, m.created_at, m.updated_at,
	p.first_name || ' ' || p.last_name AS patient_name,
	'Dr. ' || d.first_name || ' ' || d.last_name AS doctor_name
`

func (r *mappingRepository) Create(ctx context.Context, mapping *model.Mapping) error {
	query := `
		INSERT INTO mappings (
			id, patient_id, doctor_id, appointment_date, appointment_time,
			symptoms, diagnosis, prescription, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	mapping.Touch()

	_, err := r.db.ExecContext(ctx, query,
		mapping.ID,
		mapping.PatientID,
		mapping.DoctorID,
		mapping.AppointmentDate,
		mapping.AppointmentTime,
		mapping.Symptoms,
		mapping.Diagnosis,
		mapping.Prescription,
		mapping.IsActive,
		mapping.CreatedAt,
		mapping.UpdatedAt,
	)
	if err != nil {
		if conflict := translateUnique(err, "this patient is already assigned to this doctor"); conflict != err {
			return conflict
		}
		return fmt.Errorf("failed to create mapping: %w", err)
	}
	return nil
}

// Get resolves a mapping only when its patient belongs to ownerID.
func (r *mappingRepository) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Mapping, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM mappings m
		JOIN patients p ON p.id = m.patient_id
		JOIN doctors d ON d.id = m.doctor_id
		WHERE m.id = $1 AND p.user_id = $2
	`, mappingColumns)

	var mapping model.Mapping
	err := r.db.GetContext(ctx, &mapping, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("mapping")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}
	return &mapping, nil
}

func (r *mappingRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*model.Mapping, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM mappings m
		JOIN patients p ON p.id = m.patient_id
		JOIN doctors d ON d.id = m.doctor_id
		WHERE p.user_id = $1
		ORDER BY m.appointment_date
	`, mappingColumns)

	mappings := []*model.Mapping{}
	if err := r.db.SelectContext(ctx, &mappings, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	return mappings, nil
}

// ListForPatient is not owner-scoped; callers verify ownership first.
func (r *mappingRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Mapping, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM mappings m
		JOIN patients p ON p.id = m.patient_id
		JOIN doctors d ON d.id = m.doctor_id
		WHERE m.patient_id = $1
		ORDER BY m.appointment_date
	`, mappingColumns)

	mappings := []*model.Mapping{}
	if err := r.db.SelectContext(ctx, &mappings, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient mappings: %w", err)
	}
	return mappings, nil
}

func (r *mappingRepository) Update(ctx context.Context, mapping *model.Mapping) error {
	query := `
		UPDATE mappings
		SET symptoms = $1, diagnosis = $2, prescription = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`
	mapping.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		mapping.Symptoms,
		mapping.Diagnosis,
		mapping.Prescription,
		mapping.IsActive,
		mapping.UpdatedAt,
		mapping.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mapping: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("mapping")
	}
	return nil
}

// Delete removes a mapping only when its patient belongs to ownerID.
func (r *mappingRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			DELETE FROM mappings m
			USING patients p
			WHERE m.id = $1 AND p.id = m.patient_id AND p.user_id = $2
		`
		result, err := tx.ExecContext(ctx, query, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to delete mapping: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("mapping")
		}
		return nil
	})
}

// PairExists reports whether any mapping links the patient and doctor,
// regardless of slot. excludeID skips the row being updated.
func (r *mappingRepository) PairExists(ctx context.Context, patientID, doctorID, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM mappings
			WHERE patient_id = $1 AND doctor_id = $2 AND id != $3
		)`, patientID, doctorID, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check mapping pair: %w", err)
	}
	return exists, nil
}
