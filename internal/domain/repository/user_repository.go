package repository

import "github.com/jhoicas/Compras-api/internal/domain/entity"

// UserRepository lookup de usuarios. El core lo usa para validar que los
// destinatarios de un RFQ tengan rol supplier; el alta/gestión de
// usuarios es del proveedor de identidad, no de este servicio.
type UserRepository interface {
	GetByID(id string) (*entity.User, error)
}
