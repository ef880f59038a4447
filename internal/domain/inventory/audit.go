package inventory

import (
	"fmt"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// Replay aplica una secuencia de eventos (ordenada del más antiguo al más
// reciente) sobre un stock inicial y devuelve el stock final. Verifica que
// cada ResultingQuantity coincida con el total acumulado y que el stock
// nunca sea negativo.
func Replay(initial int64, events []*entity.StockEvent) (int64, error) {
	if initial < 0 {
		return 0, fmt.Errorf("stock inicial negativo: %d", initial)
	}
	qty := initial
	for i, ev := range events {
		qty += ev.Delta
		if qty < 0 {
			return 0, fmt.Errorf("evento %d (%s): stock negativo %d", i, ev.Type, qty)
		}
		if ev.ResultingQuantity != qty {
			return 0, fmt.Errorf("evento %d (%s): resulting_quantity %d, esperado %d",
				i, ev.Type, ev.ResultingQuantity, qty)
		}
	}
	return qty, nil
}

// VerifyTrail comprueba el invariante de auditoría de un dulce: el primer
// evento debe ser CREATE y la suma de deltas debe igualar el stock actual.
func VerifyTrail(sweet *entity.Sweet, events []*entity.StockEvent) error {
	if len(events) == 0 {
		return fmt.Errorf("dulce %s sin historial", sweet.ID)
	}
	if events[0].Type != entity.EventTypeCREATE {
		return fmt.Errorf("dulce %s: el primer evento es %s, no CREATE", sweet.ID, events[0].Type)
	}
	final, err := Replay(0, events)
	if err != nil {
		return fmt.Errorf("dulce %s: %w", sweet.ID, err)
	}
	if final != sweet.Quantity {
		return fmt.Errorf("dulce %s: suma de deltas %d != stock actual %d", sweet.ID, final, sweet.Quantity)
	}
	return nil
}
