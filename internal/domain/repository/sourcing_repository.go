package repository

import "github.com/jhoicas/Compras-api/internal/domain/entity"

// QuotationRequestRepository puerto de persistencia de RFQs.
// Update con control optimista por Version (ver MaterialRequestRepository).
type QuotationRequestRepository interface {
	Create(q *entity.QuotationRequest) error
	GetByID(id string) (*entity.QuotationRequest, error)
	Update(q *entity.QuotationRequest) error
	List(limit, offset int) ([]*entity.QuotationRequest, int, error)
	// ListBySupplier devuelve los RFQs dirigidos a un proveedor.
	ListBySupplier(supplierID string, limit, offset int) ([]*entity.QuotationRequest, int, error)
}

// QuotationRepository puerto de persistencia de cotizaciones.
type QuotationRepository interface {
	Create(q *entity.Quotation) error
	GetByID(id string) (*entity.Quotation, error)
	Update(q *entity.Quotation) error
	// ListByRequest devuelve todas las cotizaciones de un RFQ (para
	// verificar la invariante de única aprobada).
	ListByRequest(quotationRequestID string) ([]*entity.Quotation, error)
	ListBySupplier(supplierID string, limit, offset int) ([]*entity.Quotation, int, error)
}
