package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gp-0001/n-surgicals/internal/domain"
	"github.com/gp-0001/n-surgicals/internal/domain/entity"
	"github.com/gp-0001/n-surgicals/internal/domain/repository"
)

var _ repository.UserProfileRepository = (*UserProfileRepo)(nil)

// UserProfileRepo implementación del puerto UserProfileRepository sobre PostgreSQL.
type UserProfileRepo struct {
	q Querier
}

// NewUserProfileRepository construye el adaptador de persistencia para perfiles.
func NewUserProfileRepository(q Querier) *UserProfileRepo {
	return &UserProfileRepo{q: q}
}

// Create persiste un perfil nuevo, keyed por el uid del colaborador de credenciales.
func (r *UserProfileRepo) Create(profile *entity.UserProfile) error {
	query := `
		INSERT INTO user_profiles (uid, email, first_name, last_name, company, job_title, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		profile.UID, profile.Email, profile.FirstName, profile.LastName,
		profile.Company, profile.JobTitle, profile.Role, profile.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert user profile: %w", err)
	}
	return nil
}

// GetByUID obtiene un perfil por uid; (nil, nil) si no existe.
func (r *UserProfileRepo) GetByUID(uid string) (*entity.UserProfile, error) {
	query := `
		SELECT uid, email, first_name, last_name, company, job_title, role, created_at
		FROM user_profiles WHERE uid = $1`
	var p entity.UserProfile
	err := r.q.QueryRow(context.Background(), query, uid).Scan(
		&p.UID, &p.Email, &p.FirstName, &p.LastName, &p.Company, &p.JobTitle, &p.Role, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return &p, nil
}
