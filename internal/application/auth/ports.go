package auth

// CredentialStore es el colaborador externo de credenciales. El núcleo solo
// consume estos dos contratos; hashing, tokens de sesión y política de
// contraseñas viven del otro lado del puerto.
type CredentialStore interface {
	// CreateAccount crea la credencial y devuelve el uid asignado.
	// Email duplicado -> domain.ErrEmailAlreadyExists.
	CreateAccount(email, password string) (uid string, err error)
	// Authenticate verifica email/password y devuelve uid y email canónico.
	// Credencial rechazada -> domain.ErrInvalidCredentials.
	Authenticate(email, password string) (uid string, canonicalEmail string, err error)
}
