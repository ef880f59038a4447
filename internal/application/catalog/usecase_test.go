package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/catalog"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
)

func seedCatalog(t *testing.T) (*catalog.CatalogUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore(time.Second)
	sweets := []*entity.Sweet{
		{ID: "s1", Name: "Dark Chocolate", Category: "Chocolate", Price: decimal.NewFromFloat(3.00), Quantity: 80},
		{ID: "s2", Name: "Gummy Bears", Category: "Gummies", Price: decimal.NewFromFloat(1.99), Quantity: 150},
		{ID: "s3", Name: "Sour Gummy Worms", Category: "Gummies", Price: decimal.NewFromFloat(2.25), Quantity: 120},
	}
	for _, s := range sweets {
		require.NoError(t, store.Sweets().Create(s))
	}
	return catalog.NewCatalogUseCase(store.Sweets()), store
}

func TestList_OrdenadoPorNombre(t *testing.T) {
	uc, _ := seedCatalog(t)
	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Dark Chocolate", list[0].Name)
	assert.Equal(t, "Gummy Bears", list[1].Name)
	assert.Equal(t, "Sour Gummy Worms", list[2].Name)
}

func TestSearch_Filtros(t *testing.T) {
	uc, _ := seedCatalog(t)
	ctx := context.Background()

	t.Run("por subcadena de nombre", func(t *testing.T) {
		list, err := uc.Search(ctx, repository.SweetFilter{Name: "gummy"})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
	t.Run("por categoría", func(t *testing.T) {
		list, err := uc.Search(ctx, repository.SweetFilter{Category: "Chocolate"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Dark Chocolate", list[0].Name)
	})
	t.Run("por rango de precio", func(t *testing.T) {
		min := decimal.NewFromFloat(2.00)
		max := decimal.NewFromFloat(3.00)
		list, err := uc.Search(ctx, repository.SweetFilter{MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
	t.Run("rango invertido", func(t *testing.T) {
		min := decimal.NewFromFloat(5)
		max := decimal.NewFromFloat(1)
		_, err := uc.Search(ctx, repository.SweetFilter{MinPrice: &min, MaxPrice: &max})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUpdate_PatchParcial(t *testing.T) {
	uc, store := seedCatalog(t)
	ctx := context.Background()

	newPrice := decimal.NewFromFloat(2.49)
	updated, err := uc.Update(ctx, "s2", repository.SweetPatch{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	// Los campos no presentes no se tocan, el stock tampoco
	assert.Equal(t, "Gummy Bears", updated.Name)
	assert.Equal(t, int64(150), updated.Quantity)

	current, err := store.Sweets().GetByID("s2")
	require.NoError(t, err)
	assert.True(t, current.Price.Equal(newPrice))

	t.Run("patch vacío", func(t *testing.T) {
		_, err := uc.Update(ctx, "s2", repository.SweetPatch{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("precio negativo", func(t *testing.T) {
		bad := decimal.NewFromInt(-1)
		_, err := uc.Update(ctx, "s2", repository.SweetPatch{Price: &bad})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("inexistente", func(t *testing.T) {
		name := "X"
		_, err := uc.Update(ctx, "nope", repository.SweetPatch{Name: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDelete_CascadaDeEventos(t *testing.T) {
	uc, store := seedCatalog(t)
	ctx := context.Background()

	require.NoError(t, store.Events().Create(&entity.StockEvent{
		ID: "e1", SweetID: "s1", Type: entity.EventTypeCREATE, Delta: 80, ResultingQuantity: 80,
	}))

	require.NoError(t, uc.Delete(ctx, "s1"))

	_, err := uc.GetByID(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	events, err := store.Events().ListBySweet("s1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, events, "el historial cae en cascada con el dulce")

	assert.ErrorIs(t, uc.Delete(ctx, "s1"), domain.ErrNotFound)
}
