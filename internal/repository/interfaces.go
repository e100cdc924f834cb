package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// PatientRepository reads and writes are owner-scoped: every lookup takes
// the owning user id so a non-owner can never resolve another caller's
// patient by id. Exists and OwnerOf are the only unscoped probes; they
// exist for the validation engine, which must tell "absent" apart from
// "not yours".
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	ListActive(ctx context.Context) ([]*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}

// MappingRepository persists patient-doctor mappings. Reads are scoped to
// the owner of the mapped patient.
type MappingRepository interface {
	Create(ctx context.Context, mapping *model.Mapping) error
	Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Mapping, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*model.Mapping, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Mapping, error)
	Update(ctx context.Context, mapping *model.Mapping) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	PairExists(ctx context.Context, patientID, doctorID, excludeID uuid.UUID) (bool, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
}
