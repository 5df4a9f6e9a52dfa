package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gp-0001/n-surgicals/internal/application/dto"
	"github.com/gp-0001/n-surgicals/internal/application/policy"
	"github.com/gp-0001/n-surgicals/pkg/jwt"
)

// Locals keys para los claims del caller en Fiber.
const (
	LocalUID   = "uid"
	LocalEmail = "email"
	LocalRole  = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae uid, email y role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		uid, email, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUID, uid)
		c.Locals(LocalEmail, email)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequirePermission evalúa la política de acceso una sola vez por request,
// antes de invocar cualquier caso de uso. La denegación responde 403 sin
// tocar el store. Debe usarse DESPUÉS de AuthMiddleware.
//
// Un token sin rol (credencial válida pero perfil sin resolver) responde 401:
// ese estado es observable, no equivale a sesión cerrada ni a rol por defecto.
func RequirePermission(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no tiene rol resuelto"})
		}
		if !policy.Permit(role, action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol no permite esta acción"})
		}
		return c.Next()
	}
}

// GetUID devuelve el uid del contexto (después del middleware de auth).
func GetUID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUID).(string)
	return s
}

// GetEmail devuelve el email del contexto.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
