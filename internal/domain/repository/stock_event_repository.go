package repository

import "github.com/jhoicas/sweetshop-api/internal/domain/entity"

// StockEventRepository contrato del ledger append-only de eventos de stock.
type StockEventRepository interface {
	// Create agrega un evento al ledger. El evento es inmutable después.
	Create(event *entity.StockEvent) error
	// ListBySweet devuelve los eventos de un dulce del más antiguo al más
	// reciente, paginados. No requiere bloqueo: leer un snapshot ligeramente
	// desactualizado es aceptable porque el ledger solo crece.
	ListBySweet(sweetID string, limit, offset int) ([]*entity.StockEvent, error)
}
