package model

import (
	"github.com/google/uuid"
)

// Gender values accepted for patients.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Patient is a registry record owned by exactly one user.
type Patient struct {
	Base
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	DateOfBirth    Date      `db:"date_of_birth" json:"date_of_birth"`
	Gender         string    `db:"gender" json:"gender"`
	Phone          string    `db:"phone" json:"phone"`
	Email          string    `db:"email" json:"email"`
	Address        string    `db:"address" json:"address"`
	MedicalHistory *string   `db:"medical_history" json:"medical_history,omitempty"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	FirstName      string  `json:"first_name" binding:"required,max=64"`
	LastName       string  `json:"last_name" binding:"required,max=64"`
	DateOfBirth    Date    `json:"date_of_birth"`
	Gender         string  `json:"gender" binding:"required,oneof=male female other"`
	Phone          string  `json:"phone" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Address        string  `json:"address" binding:"required"`
	MedicalHistory *string `json:"medical_history"`
}

type UpdatePatientRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,max=64"`
	LastName       *string `json:"last_name" binding:"omitempty,max=64"`
	DateOfBirth    *Date   `json:"date_of_birth"`
	Gender         *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Address        *string `json:"address"`
	MedicalHistory *string `json:"medical_history"`
}
