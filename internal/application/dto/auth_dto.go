package dto

import "time"

// SignupRequest entrada para registro (password en texto, la custodia el
// colaborador de credenciales, nunca el dominio).
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Company   string `json:"company" validate:"omitempty,max=200"`
	JobTitle  string `json:"job_title" validate:"required,max=100"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse salida de un perfil (sin credenciales).
type ProfileResponse struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Company   string    `json:"company"`
	JobTitle  string    `json:"job_title"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse salida con token JWT y el estado de perfil resuelto.
// ProfileMissing distingue "autenticado pero sin perfil" de un login fallido.
type LoginResponse struct {
	Token          string           `json:"token"`
	Profile        *ProfileResponse `json:"profile,omitempty"`
	ProfileMissing bool             `json:"profile_missing,omitempty"`
}
