package entity

import "time"

// Roles de la aplicación. La identidad la provee el transporte (JWT);
// el core solo consulta usuarios para validar proveedores y ownership.
const (
	RoleAdmin      = "admin"
	RoleDepartment = "department"
	RolePurchasing = "purchasing"
	RoleSupplier   = "supplier"
	RoleStore      = "store"
	RoleInvoicing  = "invoicing"
)

// User referencia mínima de usuario para lookups del core.
type User struct {
	ID         string
	Username   string
	Role       string
	Department string
	CreatedAt  time.Time
}
