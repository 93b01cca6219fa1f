// Package authz implementa la AccessPolicy: una tabla declarativa
// rol × acción consultada por todos los engines antes de cualquier
// mutación. Reemplaza los checks de rol dispersos por pantalla del
// sistema original con una única fuente de verdad, sin IO ni estado.
package authz

import "github.com/jhoicas/Compras-api/internal/domain/entity"

// Actor contexto autenticado que el transporte inyecta en cada llamada.
// El core confía en estos valores; no hay verificación de credenciales aquí.
type Actor struct {
	UserID     string
	Role       string
	Department string
}

// Action acción de un engine sujeta a política de acceso.
type Action string

const (
	// Catalog
	ActionCreateMaterial Action = "material.create"
	ActionUpdateMaterial Action = "material.update"
	ActionAdjustStock    Action = "material.adjust_stock"

	// RequestEngine
	ActionCreateRequest  Action = "request.create"
	ActionApproveRequest Action = "request.approve"
	ActionRejectRequest  Action = "request.reject"
	ActionRepairRequest  Action = "request.repair"
	ActionSupplyRequest  Action = "request.supply"
	ActionReceiveRequest Action = "request.receive"

	// SourcingEngine
	ActionCreateRFQ        Action = "rfq.create"
	ActionCloseRFQ         Action = "rfq.close"
	ActionSubmitQuotation  Action = "quotation.submit"
	ActionApproveQuotation Action = "quotation.approve"
	ActionRejectQuotation  Action = "quotation.reject"

	// FulfillmentEngine
	ActionDispatchPO       Action = "po.dispatch"
	ActionPartialDispatch  Action = "po.partial_dispatch"
	ActionRejectDelivery   Action = "po.reject_delivery"
	ActionChangePOStatus   Action = "po.change_status"
)

// policy tabla acción -> roles permitidos. Única fuente de verdad.
var policy = map[Action][]string{
	ActionCreateMaterial: {entity.RoleAdmin, entity.RolePurchasing},
	ActionUpdateMaterial: {entity.RoleAdmin, entity.RolePurchasing},
	ActionAdjustStock:    {entity.RoleAdmin, entity.RolePurchasing},

	ActionCreateRequest:  {entity.RoleDepartment},
	ActionApproveRequest: {entity.RoleAdmin, entity.RolePurchasing},
	ActionRejectRequest:  {entity.RoleAdmin, entity.RolePurchasing},
	ActionRepairRequest:  {entity.RoleDepartment},
	ActionSupplyRequest:  {entity.RoleAdmin, entity.RolePurchasing},
	ActionReceiveRequest: {entity.RoleDepartment},

	ActionCreateRFQ:        {entity.RoleAdmin, entity.RolePurchasing},
	ActionCloseRFQ:         {entity.RoleAdmin, entity.RolePurchasing},
	ActionSubmitQuotation:  {entity.RoleSupplier},
	ActionApproveQuotation: {entity.RoleAdmin, entity.RolePurchasing},
	ActionRejectQuotation:  {entity.RoleAdmin, entity.RolePurchasing},

	ActionDispatchPO:      {entity.RoleSupplier},
	ActionPartialDispatch: {entity.RoleSupplier},
	ActionRejectDelivery:  {entity.RoleSupplier},
	ActionChangePOStatus:  {entity.RoleAdmin, entity.RolePurchasing, entity.RoleStore, entity.RoleInvoicing},
}

// Allowed consulta la tabla. Función pura: mismo input, mismo output.
func Allowed(role string, action Action) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Actions devuelve todas las acciones registradas en la tabla (para tests
// de cobertura de la política).
func Actions() []Action {
	out := make([]Action, 0, len(policy))
	for a := range policy {
		out = append(out, a)
	}
	return out
}
