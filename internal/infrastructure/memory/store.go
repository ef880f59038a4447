// Package memory implementa el almacén del ledger en memoria: mismo contrato
// transaccional que el adaptador PostgreSQL (bloqueo por fila, escrituras en
// staging que se confirman o descartan juntas), pensado para tests y para
// correr la API sin base de datos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store almacén en memoria con semántica transaccional.
type Store struct {
	mu     sync.Mutex
	sweets map[string]*entity.Sweet
	events []*entity.StockEvent // orden de commit, solo crece
	locks  map[string]chan struct{}

	lockTimeout time.Duration
	appendErr   error // si no es nil, el append al ledger falla con este error
}

// NewStore construye el almacén. lockTimeout acota la espera por el bloqueo
// de fila; expirado, GetForUpdate devuelve domain.ErrBusy.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &Store{
		sweets:      make(map[string]*entity.Sweet),
		locks:       make(map[string]chan struct{}),
		lockTimeout: lockTimeout,
	}
}

// FailNextAppends hace que todo append al ledger falle con err (nil lo apaga).
// Permite probar que un fallo al persistir el evento aborta la unidad completa.
func (s *Store) FailNextAppends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendErr = err
}

// Sweets acceso de lectura/escritura fuera de transacción (catálogo).
func (s *Store) Sweets() repository.SweetRepository { return &sweetView{store: s} }

// Events acceso de solo lectura al ledger fuera de transacción.
func (s *Store) Events() repository.StockEventRepository { return &eventView{store: s} }

// Run ejecuta fn como unidad atómica: las escrituras quedan en staging y se
// publican bajo el mutex global solo si fn retorna nil. Los bloqueos de fila
// adquiridos se liberan en todos los caminos de salida.
func (s *Store) Run(ctx context.Context, fn func(
	sweetRepo repository.SweetRepository,
	eventRepo repository.StockEventRepository,
) error) error {
	t := &tx{
		store:  s,
		staged: make(map[string]*entity.Sweet),
	}
	defer t.releaseLocks()

	if err := fn(&txSweetRepo{t}, &txEventRepo{t}); err != nil {
		return err
	}
	t.commit()
	return nil
}

// lockRow adquiere el bloqueo exclusivo de la fila de un dulce, con timeout.
func (s *Store) lockRow(id string) error {
	s.mu.Lock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	s.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-time.After(s.lockTimeout):
		return domain.ErrBusy
	}
}

func (s *Store) unlockRow(id string) {
	s.mu.Lock()
	ch := s.locks[id]
	s.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

// tx transacción en curso: copias en staging, bloqueos tomados.
type tx struct {
	store        *Store
	staged       map[string]*entity.Sweet
	stagedEvents []*entity.StockEvent
	held         []string
}

func (t *tx) releaseLocks() {
	for _, id := range t.held {
		t.store.unlockRow(id)
	}
	t.held = nil
}

// commit publica el staging como un todo.
func (t *tx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sweet := range t.staged {
		s.sweets[id] = copySweet(sweet)
	}
	for _, ev := range t.stagedEvents {
		s.events = append(s.events, copyEvent(ev))
	}
}

// txSweetRepo vista de sweets atada a la transacción. Solo implementa lo que
// el motor usa dentro de una unidad atómica.
type txSweetRepo struct{ t *tx }

func (r *txSweetRepo) Create(sweet *entity.Sweet) error {
	r.t.staged[sweet.ID] = copySweet(sweet)
	return nil
}

func (r *txSweetRepo) GetByID(id string) (*entity.Sweet, error) {
	if sweet, ok := r.t.staged[id]; ok {
		return copySweet(sweet), nil
	}
	return r.t.store.Sweets().GetByID(id)
}

func (r *txSweetRepo) GetForUpdate(id string) (*entity.Sweet, error) {
	if err := r.t.store.lockRow(id); err != nil {
		return nil, err
	}
	r.t.held = append(r.t.held, id)
	// Releer el valor confirmado bajo el bloqueo, nunca uno previo.
	return r.t.store.Sweets().GetByID(id)
}

func (r *txSweetRepo) Save(sweet *entity.Sweet) error {
	r.t.staged[sweet.ID] = copySweet(sweet)
	return nil
}

func (r *txSweetRepo) Update(id string, patch repository.SweetPatch) (*entity.Sweet, error) {
	return nil, domain.ErrInvalidInput // el catálogo no se edita dentro de la unidad atómica
}

func (r *txSweetRepo) Delete(id string) error {
	return domain.ErrInvalidInput
}

func (r *txSweetRepo) List() ([]*entity.Sweet, error) {
	return r.t.store.Sweets().List()
}

func (r *txSweetRepo) Search(filter repository.SweetFilter) ([]*entity.Sweet, error) {
	return r.t.store.Sweets().Search(filter)
}

// txEventRepo vista del ledger atada a la transacción.
type txEventRepo struct{ t *tx }

func (r *txEventRepo) Create(event *entity.StockEvent) error {
	r.t.store.mu.Lock()
	appendErr := r.t.store.appendErr
	r.t.store.mu.Unlock()
	if appendErr != nil {
		return &domain.StorageError{Op: "append event", Err: appendErr}
	}
	r.t.stagedEvents = append(r.t.stagedEvents, copyEvent(event))
	return nil
}

func (r *txEventRepo) ListBySweet(sweetID string, limit, offset int) ([]*entity.StockEvent, error) {
	return r.t.store.Events().ListBySweet(sweetID, limit, offset)
}

// sweetView lectura/escritura del estado confirmado (fuera de transacción).
type sweetView struct{ store *Store }

func (v *sweetView) Create(sweet *entity.Sweet) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	v.store.sweets[sweet.ID] = copySweet(sweet)
	return nil
}

func (v *sweetView) GetByID(id string) (*entity.Sweet, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	sweet, ok := v.store.sweets[id]
	if !ok {
		return nil, nil
	}
	return copySweet(sweet), nil
}

func (v *sweetView) GetForUpdate(id string) (*entity.Sweet, error) {
	// Fuera de transacción no hay bloqueo que mantener.
	return v.GetByID(id)
}

func (v *sweetView) Save(sweet *entity.Sweet) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if _, ok := v.store.sweets[sweet.ID]; !ok {
		return domain.ErrNotFound
	}
	v.store.sweets[sweet.ID] = copySweet(sweet)
	return nil
}

func (v *sweetView) Update(id string, patch repository.SweetPatch) (*entity.Sweet, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	sweet, ok := v.store.sweets[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		sweet.Name = *patch.Name
	}
	if patch.Category != nil {
		sweet.Category = *patch.Category
	}
	if patch.Price != nil {
		sweet.Price = *patch.Price
	}
	if patch.Description != nil {
		sweet.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		sweet.ImageURL = *patch.ImageURL
	}
	sweet.UpdatedAt = time.Now()
	return copySweet(sweet), nil
}

func (v *sweetView) Delete(id string) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if _, ok := v.store.sweets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(v.store.sweets, id)
	// Cascada: el historial muere con el dulce.
	kept := v.store.events[:0]
	for _, ev := range v.store.events {
		if ev.SweetID != id {
			kept = append(kept, ev)
		}
	}
	v.store.events = kept
	return nil
}

func (v *sweetView) List() ([]*entity.Sweet, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	list := make([]*entity.Sweet, 0, len(v.store.sweets))
	for _, sweet := range v.store.sweets {
		list = append(list, copySweet(sweet))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (v *sweetView) Search(filter repository.SweetFilter) ([]*entity.Sweet, error) {
	all, err := v.List()
	if err != nil {
		return nil, err
	}
	var list []*entity.Sweet
	for _, sweet := range all {
		if filter.Name != "" && !strings.Contains(strings.ToLower(sweet.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && sweet.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && sweet.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && sweet.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		list = append(list, sweet)
	}
	return list, nil
}

// eventView lectura del ledger confirmado.
type eventView struct{ store *Store }

func (v *eventView) Create(event *entity.StockEvent) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if v.store.appendErr != nil {
		return &domain.StorageError{Op: "append event", Err: v.store.appendErr}
	}
	v.store.events = append(v.store.events, copyEvent(event))
	return nil
}

func (v *eventView) ListBySweet(sweetID string, limit, offset int) ([]*entity.StockEvent, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	var all []*entity.StockEvent
	for _, ev := range v.store.events {
		if ev.SweetID == sweetID {
			all = append(all, ev)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	list := make([]*entity.StockEvent, len(all))
	for i, ev := range all {
		list[i] = copyEvent(ev)
	}
	return list, nil
}

func copySweet(s *entity.Sweet) *entity.Sweet {
	c := *s
	return &c
}

func copyEvent(e *entity.StockEvent) *entity.StockEvent {
	c := *e
	return &c
}
