// Package policy implementa el evaluador de política de acceso: una función
// pura (role, action) -> permitir/denegar, sin estado ni I/O. Se evalúa una
// sola vez por request en el middleware, antes de tocar el store.
package policy

import "github.com/gp-0001/n-surgicals/internal/domain/entity"

// Action identifica una operación de la API sujeta a política.
type Action string

// Acciones de lectura (cualquier rol resuelto) y de mutación (solo admin).
const (
	ActionListProducts  Action = "products.list"
	ActionGetProduct    Action = "products.get"
	ActionStockHistory  Action = "products.history"
	ActionLowStock      Action = "products.low_stock"
	ActionLowStockPDF   Action = "reports.low_stock_pdf"
	ActionAddProduct    Action = "products.add"
	ActionUpdateProduct Action = "products.update"
	ActionUpdateStock   Action = "products.update_stock"
	ActionDeleteProduct Action = "products.delete"
)

// readActions son accesibles a todo rol conocido.
var readActions = map[Action]bool{
	ActionListProducts: true,
	ActionGetProduct:   true,
	ActionStockHistory: true,
	ActionLowStock:     true,
	ActionLowStockPDF:  true,
}

// knownRoles cierra el conjunto de roles; un rol desconocido nunca pasa.
var knownRoles = map[string]bool{
	entity.RoleAdmin:      true,
	entity.RolePharmacist: true,
	entity.RoleNurse:      true,
	entity.RoleDoctor:     true,
}

// Permit decide si el rol puede ejecutar la acción. Las lecturas están
// abiertas a todo rol conocido; las mutaciones son exclusivas de admin.
func Permit(role string, action Action) bool {
	if !knownRoles[role] {
		return false
	}
	if readActions[action] {
		return true
	}
	switch action {
	case ActionAddProduct, ActionUpdateProduct, ActionUpdateStock, ActionDeleteProduct:
		return role == entity.RoleAdmin
	default:
		return false
	}
}
