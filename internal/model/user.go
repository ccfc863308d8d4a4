package model

import "time"

// UserRole represents the role a user registered with
type UserRole string

const (
	UserRoleEmployer  UserRole = "Employer"  // Can post and manage jobs
	UserRoleApplicant UserRole = "Applicant" // Can browse jobs
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	return r == UserRoleEmployer || r == UserRoleApplicant
}

// User represents a user account
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Hash      string    `json:"-"` // Never expose password hash
	Name      string    `json:"name"`
	Contacts  string    `json:"contacts,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50,username"`
	Password string   `json:"password" validate:"required,min=8,max=72,bcryptlen"`
	Name     string   `json:"name" validate:"required,max=100"`
	Contacts string   `json:"contacts,omitempty" validate:"max=500"`
	Role     UserRole `json:"role" validate:"required,oneof=Employer Applicant"`
}

// Validate checks the request and returns field errors, or nil when valid
func (r *RegisterRequest) Validate() []FieldError {
	return ValidateStruct(r)
}

// LoginRequest is the payload for exchanging credentials for a token
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the request and returns field errors, or nil when valid
func (r *LoginRequest) Validate() []FieldError {
	return ValidateStruct(r)
}
