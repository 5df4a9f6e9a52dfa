package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gp-0001/n-surgicals/internal/application/auth"
	"github.com/gp-0001/n-surgicals/internal/domain"
)

var _ auth.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo es el adaptador del colaborador de credenciales: cuentas
// email/password con hash bcrypt. El núcleo nunca ve el hash; solo consume
// CreateAccount y Authenticate a través del puerto.
type CredentialRepo struct {
	q Querier
}

// NewCredentialRepository construye el adaptador de credenciales.
func NewCredentialRepository(q Querier) *CredentialRepo {
	return &CredentialRepo{q: q}
}

// CreateAccount crea la credencial y devuelve el uid asignado.
// Email duplicado -> domain.ErrEmailAlreadyExists.
func (r *CredentialRepo) CreateAccount(email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	uid := uuid.New().String()
	query := `
		INSERT INTO credentials (uid, email, password_hash, created_at)
		VALUES ($1, $2, $3, now())`
	_, err = r.q.Exec(context.Background(), query, uid, normalizeEmail(email), string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrEmailAlreadyExists
		}
		return "", fmt.Errorf("insert credential: %w", err)
	}
	return uid, nil
}

// Authenticate verifica email/password y devuelve uid y email canónico.
// Tanto el email desconocido como el password incorrecto responden
// ErrInvalidCredentials, sin distinguirlos.
func (r *CredentialRepo) Authenticate(email, password string) (string, string, error) {
	query := `SELECT uid, email, password_hash FROM credentials WHERE email = $1`
	var uid, canonical, hash string
	err := r.q.QueryRow(context.Background(), query, normalizeEmail(email)).Scan(&uid, &canonical, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", domain.ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("get credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	return uid, canonical, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
