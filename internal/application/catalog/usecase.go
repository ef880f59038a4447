package catalog

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// CatalogUseCase consultas y mantenimiento del catálogo de dulces. Todo es
// lectura sin bloqueos o edición de campos que no tocan el stock; la mutación
// de Quantity vive exclusivamente en application/inventory.
type CatalogUseCase struct {
	sweetRepo repository.SweetRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(sweetRepo repository.SweetRepository) *CatalogUseCase {
	return &CatalogUseCase{sweetRepo: sweetRepo}
}

// List devuelve todos los dulces ordenados por nombre.
func (uc *CatalogUseCase) List(ctx context.Context) ([]*entity.Sweet, error) {
	return uc.sweetRepo.List()
}

// Search filtra por subcadena de nombre, categoría y rango de precio.
func (uc *CatalogUseCase) Search(ctx context.Context, filter repository.SweetFilter) ([]*entity.Sweet, error) {
	if filter.MinPrice != nil && filter.MinPrice.IsNegative() {
		return nil, &domain.ValidationError{Field: "min_price", Reason: "no puede ser negativo"}
	}
	if filter.MaxPrice != nil && filter.MaxPrice.IsNegative() {
		return nil, &domain.ValidationError{Field: "max_price", Reason: "no puede ser negativo"}
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, &domain.ValidationError{Field: "min_price", Reason: "mayor que max_price"}
	}
	return uc.sweetRepo.Search(filter)
}

// GetByID devuelve un dulce o ErrNotFound.
func (uc *CatalogUseCase) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	sweet, err := uc.sweetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sweet == nil {
		return nil, domain.ErrNotFound
	}
	return sweet, nil
}

// Update aplica un patch tipado de campos de catálogo. El patch no incluye
// Quantity a propósito.
func (uc *CatalogUseCase) Update(ctx context.Context, id string, patch repository.SweetPatch) (*entity.Sweet, error) {
	if patch.Empty() {
		return nil, &domain.ValidationError{Field: "body", Reason: "sin campos que actualizar"}
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "no puede quedar vacío"}
	}
	if patch.Category != nil && *patch.Category == "" {
		return nil, &domain.ValidationError{Field: "category", Reason: "no puede quedar vacío"}
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, &domain.ValidationError{Field: "price", Reason: "no puede ser negativo"}
	}
	sweet, err := uc.sweetRepo.Update(id, patch)
	if err != nil {
		return nil, err
	}
	if sweet == nil {
		return nil, domain.ErrNotFound
	}
	return sweet, nil
}

// Delete elimina un dulce del catálogo. Sus eventos se eliminan en cascada
// en el almacén (única situación en que el ledger pierde registros).
func (uc *CatalogUseCase) Delete(ctx context.Context, id string) error {
	sweet, err := uc.sweetRepo.GetByID(id)
	if err != nil {
		return err
	}
	if sweet == nil {
		return domain.ErrNotFound
	}
	return uc.sweetRepo.Delete(id)
}
