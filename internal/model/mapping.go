package model

import (
	"github.com/google/uuid"
)

// Mapping links one patient and one doctor for a scheduled encounter and
// carries the clinical notes for it. At most one mapping may ever exist
// between a given patient and doctor, independent of the slot.
type Mapping struct {
	Base
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	AppointmentDate Date      `db:"appointment_date" json:"appointment_date"`
	AppointmentTime TimeOfDay `db:"appointment_time" json:"appointment_time"`
	Symptoms        string    `db:"symptoms" json:"symptoms"`
	Diagnosis       string    `db:"diagnosis" json:"diagnosis"`
	Prescription    string    `db:"prescription" json:"prescription"`
	IsActive        bool      `db:"is_active" json:"is_active"`

	// Read-only names resolved by joins on list/get.
	PatientName string `db:"patient_name" json:"patient_name,omitempty"`
	DoctorName  string `db:"doctor_name" json:"doctor_name,omitempty"`
}

type CreateMappingRequest struct {
	PatientID       uuid.UUID `json:"patient" binding:"required"`
	DoctorID        uuid.UUID `json:"doctor" binding:"required"`
	AppointmentDate *Date     `json:"appointment_date"`
	AppointmentTime TimeOfDay `json:"appointment_time"`
	Symptoms        string    `json:"symptoms"`
	Diagnosis       string    `json:"diagnosis"`
	Prescription    string    `json:"prescription"`
}

// UpdateMappingRequest amends clinical fields. Patient and doctor may be
// re-submitted but must match the existing pair.
type UpdateMappingRequest struct {
	PatientID    *uuid.UUID `json:"patient"`
	DoctorID     *uuid.UUID `json:"doctor"`
	Symptoms     *string    `json:"symptoms"`
	Diagnosis    *string    `json:"diagnosis"`
	Prescription *string    `json:"prescription"`
	IsActive     *bool      `json:"is_active"`
}
