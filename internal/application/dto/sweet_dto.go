package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// CreateSweetRequest alta de un dulce.
type CreateSweetRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
}

// UpdateSweetRequest actualización parcial de campos de catálogo. Punteros:
// solo los campos presentes en el JSON se aplican. Quantity no se acepta aquí;
// el stock se mueve con purchase/restock/adjust.
type UpdateSweetRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"`
}

// PurchaseRequest compra de unidades de un dulce.
type PurchaseRequest struct {
	Quantity int64 `json:"quantity"`
}

// RestockRequest reposición de unidades.
type RestockRequest struct {
	Quantity int64 `json:"quantity"`
}

// AdjustRequest corrección manual con signo.
type AdjustRequest struct {
	Delta int64 `json:"delta"`
}

// SweetResponse representación HTTP de un dulce.
type SweetResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockEventResponse representación HTTP de un evento del ledger.
type StockEventResponse struct {
	ID                string          `json:"id"`
	SweetID           string          `json:"sweet_id"`
	Type              string          `json:"type"`
	Delta             int64           `json:"delta"`
	ResultingQuantity int64           `json:"resulting_quantity"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ActorID           string          `json:"actor_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// MutationResponse resultado de una operación de stock: el dulce actualizado
// y el evento que la registró.
type MutationResponse struct {
	Sweet SweetResponse      `json:"sweet"`
	Event StockEventResponse `json:"event"`
}

// FromSweet convierte la entidad a su representación HTTP.
func FromSweet(s *entity.Sweet) SweetResponse {
	return SweetResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromStockEvent convierte el evento a su representación HTTP.
func FromStockEvent(e *entity.StockEvent) StockEventResponse {
	return StockEventResponse{
		ID:                e.ID,
		SweetID:           e.SweetID,
		Type:              e.Type,
		Delta:             e.Delta,
		ResultingQuantity: e.ResultingQuantity,
		TotalValue:        e.TotalValue,
		ActorID:           e.ActorID,
		CreatedAt:         e.CreatedAt,
	}
}

// FromSweets convierte una lista de entidades.
func FromSweets(sweets []*entity.Sweet) []SweetResponse {
	out := make([]SweetResponse, len(sweets))
	for i, s := range sweets {
		out[i] = FromSweet(s)
	}
	return out
}
