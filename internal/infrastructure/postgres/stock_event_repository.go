package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

// StockEventRepo implementación del ledger append-only sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: los eventos no se tocan.
type StockEventRepo struct {
	q Querier
}

// NewStockEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEventRepository(q Querier) *StockEventRepo {
	return &StockEventRepo{q: q}
}

// Create agrega un evento al ledger.
func (r *StockEventRepo) Create(event *entity.StockEvent) error {
	query := `
		INSERT INTO stock_events (id, sweet_id, type, delta, resulting_quantity, total_value, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	actorID := (*string)(nil)
	if event.ActorID != "" {
		actorID = &event.ActorID
	}
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.SweetID, event.Type, event.Delta,
		event.ResultingQuantity, event.TotalValue, actorID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock event: %w", err)
	}
	return nil
}

// ListBySweet lista los eventos de un dulce del más antiguo al más reciente.
// El orden secundario por seq desempata eventos con el mismo timestamp.
func (r *StockEventRepo) ListBySweet(sweetID string, limit, offset int) ([]*entity.StockEvent, error) {
	query := `
		SELECT id, sweet_id, type, delta, resulting_quantity, total_value, actor_id, created_at
		FROM stock_events WHERE sweet_id = $1
		ORDER BY created_at ASC, seq ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, sweetID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock events: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockEvent
	for rows.Next() {
		var ev entity.StockEvent
		var actorID *string
		if err := rows.Scan(&ev.ID, &ev.SweetID, &ev.Type, &ev.Delta,
			&ev.ResultingQuantity, &ev.TotalValue, &actorID, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock event: %w", err)
		}
		if actorID != nil {
			ev.ActorID = *actorID
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
