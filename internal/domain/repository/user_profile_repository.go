package repository

import "github.com/gp-0001/n-surgicals/internal/domain/entity"

// UserProfileRepository define el puerto de persistencia para UserProfile (DIP).
// El perfil se crea una vez en el registro y se lee en cada login; no tiene
// ruta de actualización.
type UserProfileRepository interface {
	Create(profile *entity.UserProfile) error
	// GetByUID devuelve (nil, nil) si el perfil no existe.
	GetByUID(uid string) (*entity.UserProfile, error)
}
