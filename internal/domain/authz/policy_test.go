package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// La tabla es la única fuente de verdad: mismos inputs, misma decisión.
func TestAllowed_EsDeterminista(t *testing.T) {
	for _, action := range authz.Actions() {
		first := authz.Allowed(entity.RolePurchasing, action)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, authz.Allowed(entity.RolePurchasing, action),
				"Allowed debe ser pura para %s", action)
		}
	}
}

func TestAllowed_RolesDelFlujoDeSolicitudes(t *testing.T) {
	// Crear y reparar son del departamento; aprobar/rechazar/suministrar de compras.
	assert.True(t, authz.Allowed(entity.RoleDepartment, authz.ActionCreateRequest))
	assert.True(t, authz.Allowed(entity.RoleDepartment, authz.ActionRepairRequest))
	assert.True(t, authz.Allowed(entity.RoleDepartment, authz.ActionReceiveRequest))
	assert.False(t, authz.Allowed(entity.RoleDepartment, authz.ActionApproveRequest))
	assert.False(t, authz.Allowed(entity.RoleDepartment, authz.ActionSupplyRequest))

	assert.True(t, authz.Allowed(entity.RolePurchasing, authz.ActionApproveRequest))
	assert.True(t, authz.Allowed(entity.RolePurchasing, authz.ActionRejectRequest))
	assert.True(t, authz.Allowed(entity.RolePurchasing, authz.ActionSupplyRequest))
	assert.False(t, authz.Allowed(entity.RolePurchasing, authz.ActionCreateRequest))

	assert.True(t, authz.Allowed(entity.RoleAdmin, authz.ActionApproveRequest))
}

func TestAllowed_RolesDelFlujoDeCotizaciones(t *testing.T) {
	// Solo el proveedor cotiza y despacha; compras arma y decide.
	assert.True(t, authz.Allowed(entity.RoleSupplier, authz.ActionSubmitQuotation))
	assert.False(t, authz.Allowed(entity.RoleSupplier, authz.ActionCreateRFQ))
	assert.False(t, authz.Allowed(entity.RoleSupplier, authz.ActionApproveQuotation))

	assert.True(t, authz.Allowed(entity.RolePurchasing, authz.ActionCreateRFQ))
	assert.True(t, authz.Allowed(entity.RolePurchasing, authz.ActionCloseRFQ))
	assert.True(t, authz.Allowed(entity.RolePurchasing, authz.ActionApproveQuotation))
	assert.False(t, authz.Allowed(entity.RolePurchasing, authz.ActionSubmitQuotation))
}

func TestAllowed_RolesDelFlujoDeOrdenes(t *testing.T) {
	assert.True(t, authz.Allowed(entity.RoleSupplier, authz.ActionDispatchPO))
	assert.True(t, authz.Allowed(entity.RoleSupplier, authz.ActionPartialDispatch))
	assert.True(t, authz.Allowed(entity.RoleSupplier, authz.ActionRejectDelivery))
	assert.False(t, authz.Allowed(entity.RoleSupplier, authz.ActionChangePOStatus))

	// El cierre de la orden lo hacen bodega, facturación, compras o admin.
	assert.True(t, authz.Allowed(entity.RoleStore, authz.ActionChangePOStatus))
	assert.True(t, authz.Allowed(entity.RoleInvoicing, authz.ActionChangePOStatus))
	assert.True(t, authz.Allowed(entity.RolePurchasing, authz.ActionChangePOStatus))
	assert.False(t, authz.Allowed(entity.RoleStore, authz.ActionDispatchPO))
}

func TestAllowed_RolDesconocidoNuncaPasa(t *testing.T) {
	for _, action := range authz.Actions() {
		assert.False(t, authz.Allowed("intruso", action),
			"un rol fuera de la tabla no debe pasar %s", action)
		assert.False(t, authz.Allowed("", action),
			"rol vacío no debe pasar %s", action)
	}
}
