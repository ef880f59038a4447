package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// Valores por defecto para la espera del bloqueo de fila.
const (
	DefaultLockAttempts = 3
)

// StockUseCase es el motor de consistencia de inventario: la única autoridad
// que muta Quantity. Cada operación corre como una unidad atómica sobre el
// almacén (bloqueo de fila + escritura de stock + evento del ledger, todo
// commit o todo rollback). La disciplina es siempre bloquear-y-luego-validar:
// nunca se decide con un valor leído antes de adquirir el bloqueo.
type StockUseCase struct {
	txRunner     TxRunner
	eventRepo    repository.StockEventRepository
	lockAttempts int
}

// NewStockUseCase construye el motor. eventRepo es el acceso de lectura al
// ledger fuera de transacción (historial de auditoría).
func NewStockUseCase(txRunner TxRunner, eventRepo repository.StockEventRepository) *StockUseCase {
	return &StockUseCase{
		txRunner:     txRunner,
		eventRepo:    eventRepo,
		lockAttempts: DefaultLockAttempts,
	}
}

// WithLockAttempts ajusta cuántas veces se reintenta la unidad atómica ante
// ErrBusy (timeout esperando el bloqueo de fila) antes de rendirse.
func (uc *StockUseCase) WithLockAttempts(n int) *StockUseCase {
	if n > 0 {
		uc.lockAttempts = n
	}
	return uc
}

// CreateSweetInput entrada para dar de alta un dulce.
type CreateSweetInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Quantity    int64
	Description string
	ImageURL    string
}

// Create valida y da de alta un dulce junto con su evento CREATE en una sola
// unidad atómica: nunca existe un dulce sin rastro de auditoría.
func (uc *StockUseCase) Create(ctx context.Context, input CreateSweetInput) (*entity.Sweet, *entity.StockEvent, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, &domain.ValidationError{Field: "name", Reason: "es obligatorio"}
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, nil, &domain.ValidationError{Field: "category", Reason: "es obligatorio"}
	}
	if input.Price.IsNegative() {
		return nil, nil, &domain.ValidationError{Field: "price", Reason: "no puede ser negativo"}
	}
	if input.Quantity < 0 {
		return nil, nil, &domain.ValidationError{Field: "quantity", Reason: "no puede ser negativo"}
	}

	now := time.Now()
	sweet := &entity.Sweet{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	event := &entity.StockEvent{
		ID:                uuid.New().String(),
		SweetID:           sweet.ID,
		Type:              entity.EventTypeCREATE,
		Delta:             input.Quantity,
		ResultingQuantity: input.Quantity,
		TotalValue:        decimal.Zero,
		CreatedAt:         now,
	}

	// Sin riesgo de carrera (no hay fila previa), pero el insert y el evento
	// deben confirmarse juntos.
	err := uc.txRunner.Run(ctx, func(
		sweetRepo repository.SweetRepository,
		eventRepo repository.StockEventRepository,
	) error {
		if err := sweetRepo.Create(sweet); err != nil {
			return err
		}
		return eventRepo.Create(event)
	})
	if err != nil {
		return nil, nil, asDomainError(err)
	}
	return sweet, event, nil
}

// Purchase vende qty unidades. Unidad atómica: bloquea la fila, relee el
// stock bajo el bloqueo, rechaza con InsufficientStockError si no alcanza,
// resta y agrega el evento PURCHASE con el valor total al precio del momento.
func (uc *StockUseCase) Purchase(ctx context.Context, sweetID string, qty int64, buyerID string) (*entity.Sweet, *entity.StockEvent, error) {
	if qty <= 0 {
		return nil, nil, &domain.ValidationError{Field: "quantity", Reason: "debe ser un entero positivo"}
	}
	return uc.mutate(ctx, sweetID, func(sweet *entity.Sweet, now time.Time) (*entity.StockEvent, error) {
		if qty > sweet.Quantity {
			return nil, &domain.InsufficientStockError{Available: sweet.Quantity, Requested: qty}
		}
		sweet.Quantity -= qty
		return &entity.StockEvent{
			Type:       entity.EventTypePURCHASE,
			Delta:      -qty,
			TotalValue: decimal.NewFromInt(qty).Mul(sweet.Price),
			ActorID:    buyerID,
		}, nil
	})
}

// Restock repone qty unidades. No hay riesgo de stock negativo, pero toma el
// bloqueo igual: sin él, una compra concurrente que calculó con una lectura
// previa pisaría esta reposición (lost update).
func (uc *StockUseCase) Restock(ctx context.Context, sweetID string, qty int64, actorID string) (*entity.Sweet, *entity.StockEvent, error) {
	if qty <= 0 {
		return nil, nil, &domain.ValidationError{Field: "quantity", Reason: "debe ser un entero positivo"}
	}
	return uc.mutate(ctx, sweetID, func(sweet *entity.Sweet, now time.Time) (*entity.StockEvent, error) {
		sweet.Quantity += qty
		return &entity.StockEvent{
			Type:       entity.EventTypeRESTOCK,
			Delta:      qty,
			TotalValue: decimal.Zero,
			ActorID:    actorID,
		}, nil
	})
}

// Adjust aplica una corrección con signo (ej. merma). Misma disciplina de
// bloqueo; rechaza si el resultado quedaría negativo.
func (uc *StockUseCase) Adjust(ctx context.Context, sweetID string, delta int64, actorID string) (*entity.Sweet, *entity.StockEvent, error) {
	if delta == 0 {
		return nil, nil, &domain.ValidationError{Field: "delta", Reason: "no puede ser cero"}
	}
	return uc.mutate(ctx, sweetID, func(sweet *entity.Sweet, now time.Time) (*entity.StockEvent, error) {
		if sweet.Quantity+delta < 0 {
			return nil, &domain.InsufficientStockError{Available: sweet.Quantity, Requested: -delta}
		}
		sweet.Quantity += delta
		return &entity.StockEvent{
			Type:       entity.EventTypeADJUSTMENT,
			Delta:      delta,
			TotalValue: decimal.Zero,
			ActorID:    actorID,
		}, nil
	})
}

// mutate ejecuta una mutación de stock como unidad atómica con reintento
// acotado ante ErrBusy. apply recibe el dulce ya releído bajo el bloqueo de
// fila, muta Quantity y devuelve el evento a registrar (sin ID ni totales
// de secuencia; mutate los completa).
func (uc *StockUseCase) mutate(ctx context.Context, sweetID string,
	apply func(sweet *entity.Sweet, now time.Time) (*entity.StockEvent, error),
) (*entity.Sweet, *entity.StockEvent, error) {
	if sweetID == "" {
		return nil, nil, &domain.ValidationError{Field: "id", Reason: "es obligatorio"}
	}
	// La cancelación solo se respeta antes de iniciar la unidad atómica:
	// una vez dentro, corre hasta commit o rollback para no dejar estado roto.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	unitCtx := context.WithoutCancel(ctx)

	var (
		result *entity.Sweet
		event  *entity.StockEvent
	)
	var err error
	for attempt := 0; attempt < uc.lockAttempts; attempt++ {
		err = uc.txRunner.Run(unitCtx, func(
			sweetRepo repository.SweetRepository,
			eventRepo repository.StockEventRepository,
		) error {
			// Bloquear primero, validar después: nunca al revés.
			sweet, err := sweetRepo.GetForUpdate(sweetID)
			if err != nil {
				return err
			}
			if sweet == nil {
				return domain.ErrNotFound
			}
			now := time.Now()
			ev, err := apply(sweet, now)
			if err != nil {
				return err
			}
			sweet.UpdatedAt = now
			if err := sweetRepo.Save(sweet); err != nil {
				return err
			}
			ev.ID = uuid.New().String()
			ev.SweetID = sweet.ID
			ev.ResultingQuantity = sweet.Quantity
			ev.CreatedAt = now
			if err := eventRepo.Create(ev); err != nil {
				return err
			}
			result = sweet
			event = ev
			return nil
		})
		// Solo el timeout de bloqueo se reintenta; validación y stock
		// insuficiente son definitivos.
		if !errors.Is(err, domain.ErrBusy) {
			break
		}
	}
	if err != nil {
		return nil, nil, asDomainError(err)
	}
	return result, event, nil
}

// asDomainError clasifica lo que sale de la unidad atómica: los errores de
// negocio pasan tal cual; cualquier fallo del almacén sale como StorageError
// (la transacción ya quedó abortada).
func asDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrBusy):
		return err
	}
	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &domain.StorageError{Op: "unidad atómica", Err: err}
}

// AuditTrail devuelve un iterador reiniciable sobre el historial de eventos
// de un dulce, del más antiguo al más reciente. Lee sin bloqueos.
func (uc *StockUseCase) AuditTrail(sweetID string) *AuditIterator {
	return &AuditIterator{repo: uc.eventRepo, sweetID: sweetID, pageSize: auditPageSize}
}
