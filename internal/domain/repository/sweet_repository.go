package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// SweetFilter criterios de búsqueda del catálogo. Campos vacíos/nil no filtran.
type SweetFilter struct {
	Name     string // subcadena, case-insensitive
	Category string // igualdad exacta
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// SweetPatch actualización parcial tipada de campos de catálogo. Solo los
// campos no-nil se escriben. Quantity no aparece aquí a propósito: el stock
// lo muta únicamente el motor de inventario.
type SweetPatch struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Description *string
	ImageURL    *string
}

// Empty indica si el patch no trae ningún campo.
func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil &&
		p.Description == nil && p.ImageURL == nil
}

// SweetRepository contrato de persistencia de dulces.
// GetByID devuelve nil, nil si el dulce no existe.
type SweetRepository interface {
	Create(sweet *entity.Sweet) error
	GetByID(id string) (*entity.Sweet, error)
	// GetForUpdate lee el dulce bloqueando su fila (SELECT ... FOR UPDATE).
	// Solo tiene sentido dentro de una transacción; devuelve nil, nil si no existe
	// y domain.ErrBusy si el bloqueo no se obtiene dentro del lock_timeout.
	GetForUpdate(id string) (*entity.Sweet, error)
	// Save persiste el estado completo del dulce (incluido Quantity).
	Save(sweet *entity.Sweet) error
	// Update aplica un patch de catálogo; devuelve el dulce actualizado
	// o nil, nil si no existe.
	Update(id string, patch SweetPatch) (*entity.Sweet, error)
	Delete(id string) error
	List() ([]*entity.Sweet, error)
	Search(filter SweetFilter) ([]*entity.Sweet, error)
}
