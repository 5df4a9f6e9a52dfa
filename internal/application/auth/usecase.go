// Package auth implementa el resolvedor de identidad y rol: registro, login,
// logout y la suscripción a cambios de estado de autenticación.
package auth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gp-0001/n-surgicals/internal/application/dto"
	"github.com/gp-0001/n-surgicals/internal/domain"
	"github.com/gp-0001/n-surgicals/internal/domain/entity"
	"github.com/gp-0001/n-surgicals/internal/domain/repository"
	"github.com/gp-0001/n-surgicals/pkg/jwt"
	"github.com/gp-0001/n-surgicals/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Session es el estado de autenticación de UN caller, pasado explícitamente
// por cada request; nunca hay sesión global de proceso.
//
// ProfileMissing representa "autenticado pero sin perfil": un estado válido y
// observable, distinto de no-autenticado.
type Session struct {
	UID            string
	Email          string
	Token          string
	Profile        *entity.UserProfile
	ProfileMissing bool
}

// HasRole delega en el perfil de la sesión (admin pasa siempre; sin perfil
// resuelto nunca pasa).
func (s *Session) HasRole(required ...string) bool {
	if s == nil {
		return false
	}
	return s.Profile.HasRole(required...)
}

// State es el evento entregado a los suscriptores en cada cambio de
// autenticación (login o logout). En logout todos los campos quedan en cero.
type State struct {
	SignedIn       bool
	UID            string
	Profile        *entity.UserProfile
	ProfileMissing bool
}

// Listener recibe eventos de estado de autenticación.
type Listener func(State)

// UseCase resuelve credenciales en perfiles con rol derivado.
type UseCase struct {
	creds    CredentialStore
	profiles repository.UserProfileRepository
	jwtCfg   JWTConfig
	log      *logger.Logger

	// mu serializa la entrega de eventos: cada cambio de estado se notifica
	// completo (con el fetch de perfil ya resuelto) antes del siguiente.
	mu        sync.Mutex
	listeners []Listener
}

// NewUseCase construye el resolvedor.
func NewUseCase(creds CredentialStore, profiles repository.UserProfileRepository, jwtCfg JWTConfig, log *logger.Logger) *UseCase {
	return &UseCase{creds: creds, profiles: profiles, jwtCfg: jwtCfg, log: log}
}

// Subscribe registra un listener de cambios de autenticación. Los eventos se
// entregan de a uno, en orden de llegada.
func (uc *UseCase) Subscribe(fn Listener) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.listeners = append(uc.listeners, fn)
}

func (uc *UseCase) notify(st State) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for _, fn := range uc.listeners {
		fn(st)
	}
}

// Signup delega la creación de la credencial al colaborador, deriva el rol
// desde el cargo (tabla fija, fallback pharmacist) y persiste el perfil
// keyed por el uid devuelto.
func (uc *UseCase) Signup(in dto.SignupRequest) (*dto.ProfileResponse, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, domain.ErrInvalidInput
	}

	uid, err := uc.creds.CreateAccount(in.Email, in.Password)
	if err != nil {
		uc.log.Warn().Err(err).Str("email", in.Email).Msg("registro rechazado por el colaborador de credenciales")
		return nil, err
	}

	role, known := entity.RoleForJobTitle(in.JobTitle)
	if !known {
		uc.log.Warn().
			Str("uid", uid).
			Str("job_title", in.JobTitle).
			Str("role", role).
			Msg("cargo sin mapeo de rol, se aplica el rol por defecto")
	}

	profile := &entity.UserProfile{
		UID:       uid,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Company:   in.Company,
		JobTitle:  in.JobTitle,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := uc.profiles.Create(profile); err != nil {
		uc.log.Error().Err(err).Str("uid", uid).Msg("persistir perfil")
		return nil, fmt.Errorf("crear perfil: %w", err)
	}
	return toProfileResponse(profile), nil
}

// Login verifica la credencial y resuelve el perfil por uid. El fetch del
// perfil termina (con o sin perfil) antes de emitir el evento: los
// suscriptores nunca observan "cargado pero sin resolver" salvo por el
// estado explícito ProfileMissing.
func (uc *UseCase) Login(in dto.LoginRequest) (*Session, error) {
	uid, email, err := uc.creds.Authenticate(in.Email, in.Password)
	if err != nil {
		uc.log.Warn().Err(err).Str("email", in.Email).Msg("login rechazado")
		return nil, err
	}

	profile, err := uc.profiles.GetByUID(uid)
	if err != nil {
		uc.log.Error().Err(err).Str("uid", uid).Msg("resolver perfil")
		return nil, fmt.Errorf("resolver perfil: %w", err)
	}

	sess := &Session{
		UID:            uid,
		Email:          email,
		Profile:        profile,
		ProfileMissing: profile == nil,
	}
	if profile == nil {
		uc.log.Warn().Str("uid", uid).Msg("credencial válida sin perfil asociado")
	}

	role := ""
	if profile != nil {
		role = profile.Role
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uid, email, role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	sess.Token = token

	uc.notify(State{SignedIn: true, UID: uid, Profile: profile, ProfileMissing: profile == nil})
	return sess, nil
}

// Logout invalida la vista local de la sesión y limpia el perfil cacheado.
// Idempotente: sobre una sesión nil o ya cerrada no emite evento.
func (uc *UseCase) Logout(sess *Session) {
	if sess == nil || (sess.UID == "" && sess.Token == "") {
		return
	}
	*sess = Session{}
	uc.notify(State{})
}

// ProfileFor devuelve el perfil resuelto de un uid, o ErrProfileNotFound.
func (uc *UseCase) ProfileFor(uid string) (*dto.ProfileResponse, error) {
	profile, err := uc.profiles.GetByUID(uid)
	if err != nil {
		return nil, fmt.Errorf("resolver perfil: %w", err)
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return toProfileResponse(profile), nil
}

func toProfileResponse(p *entity.UserProfile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		UID:       p.UID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Company:   p.Company,
		JobTitle:  p.JobTitle,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}
