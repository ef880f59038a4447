package inventory

import (
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

const auditPageSize = 100

// AuditIterator recorre el historial de eventos de un dulce de forma perezosa,
// trayendo páginas del ledger bajo demanda. Es finito y reiniciable (Reset
// vuelve al inicio); como el ledger solo crece, un snapshot ligeramente
// desactualizado es aceptable.
type AuditIterator struct {
	repo     repository.StockEventRepository
	sweetID  string
	pageSize int

	page   []*entity.StockEvent
	pos    int
	offset int
	done   bool
}

// Next devuelve el siguiente evento o nil, nil al agotar el historial.
func (it *AuditIterator) Next() (*entity.StockEvent, error) {
	if it.pos >= len(it.page) {
		if it.done {
			return nil, nil
		}
		page, err := it.repo.ListBySweet(it.sweetID, it.pageSize, it.offset)
		if err != nil {
			return nil, err
		}
		it.page = page
		it.pos = 0
		it.offset += len(page)
		if len(page) < it.pageSize {
			it.done = true
		}
		if len(page) == 0 {
			return nil, nil
		}
	}
	ev := it.page[it.pos]
	it.pos++
	return ev, nil
}

// Reset reinicia el recorrido desde el evento más antiguo.
func (it *AuditIterator) Reset() {
	it.page = nil
	it.pos = 0
	it.offset = 0
	it.done = false
}

// Collect consume el iterador completo y devuelve los eventos restantes.
func (it *AuditIterator) Collect() ([]*entity.StockEvent, error) {
	var events []*entity.StockEvent
	for {
		ev, err := it.Next()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return events, nil
		}
		events = append(events, ev)
	}
}
