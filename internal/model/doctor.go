package model

// Doctor is a directory record. Doctors are not owned by any user; any
// authenticated caller may manage them.
type Doctor struct {
	Base
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	Specialization string `db:"specialization" json:"specialization"`
	Phone          string `db:"phone" json:"phone"`
	Email          string `db:"email" json:"email"`
	License        string `db:"license" json:"license"`
	Address        string `db:"address" json:"address"`
	IsActive       bool   `db:"is_active" json:"is_active"`
}

func (d *Doctor) FullName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}

type CreateDoctorRequest struct {
	FirstName      string `json:"first_name" binding:"required,max=64"`
	LastName       string `json:"last_name" binding:"required,max=64"`
	Specialization string `json:"specialization" binding:"required,max=100"`
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	License        string `json:"license" binding:"required,max=50"`
	Address        string `json:"address" binding:"required"`
	IsActive       *bool  `json:"is_active"`
}

type UpdateDoctorRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,max=64"`
	LastName       *string `json:"last_name" binding:"omitempty,max=64"`
	Specialization *string `json:"specialization" binding:"omitempty,max=100"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email" binding:"omitempty,email"`
	License        *string `json:"license" binding:"omitempty,max=50"`
	Address        *string `json:"address"`
	IsActive       *bool   `json:"is_active"`
}
