package entity

import (
	"strings"
	"time"
)

// Roles válidos para UserProfile.
const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
	RoleNurse      = "nurse"
	RoleDoctor     = "doctor"
)

// UserProfile representa el perfil de un usuario autenticado. El rol se deriva
// una sola vez al registrarse (ver RoleForJobTitle) y no se recalcula después.
type UserProfile struct {
	UID       string
	Email     string
	FirstName string
	LastName  string
	Company   string
	JobTitle  string
	Role      string // admin, pharmacist, nurse, doctor
	CreatedAt time.Time
}

// RoleForJobTitle deriva el rol desde el cargo con una tabla fija
// (case-insensitive). Cualquier cargo desconocido cae en pharmacist.
// Devuelve además si hubo coincidencia exacta, para que el caso de uso
// registre cuándo se aplicó el rol por defecto.
func RoleForJobTitle(jobTitle string) (role string, known bool) {
	switch strings.ToLower(strings.TrimSpace(jobTitle)) {
	case "administrator":
		return RoleAdmin, true
	case "pharmacist":
		return RolePharmacist, true
	case "nurse":
		return RoleNurse, true
	case "doctor":
		return RoleDoctor, true
	default:
		return RolePharmacist, false
	}
}

// HasRole indica si el perfil satisface el rol (o conjunto de roles) requerido.
// admin pasa incondicionalmente; un perfil nil nunca pasa.
func (u *UserProfile) HasRole(required ...string) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	for _, r := range required {
		if u.Role == r {
			return true
		}
	}
	return false
}
