// Seed de desarrollo: carga el catálogo de muestra a través del motor de
// inventario, de modo que cada dulce nace con su evento CREATE en el ledger.
// Idempotente: si el catálogo ya tiene datos no hace nada.
package main

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

var sampleSweets = []inventory.CreateSweetInput{
	{Name: "Milk Chocolate Bar", Category: "Chocolate", Price: decimal.NewFromFloat(2.50), Quantity: 100, Description: "Creamy milk chocolate bar"},
	{Name: "Dark Chocolate", Category: "Chocolate", Price: decimal.NewFromFloat(3.00), Quantity: 80, Description: "Rich dark chocolate with 70% cocoa"},
	{Name: "Gummy Bears", Category: "Gummies", Price: decimal.NewFromFloat(1.99), Quantity: 150, Description: "Colorful fruity gummy bears"},
	{Name: "Sour Gummy Worms", Category: "Gummies", Price: decimal.NewFromFloat(2.25), Quantity: 120, Description: "Tangy sour gummy worms"},
	{Name: "Classic Lollipop", Category: "Hard Candy", Price: decimal.NewFromFloat(0.99), Quantity: 200, Description: "Traditional swirl lollipop"},
	{Name: "Fruit Lollipops", Category: "Hard Candy", Price: decimal.NewFromFloat(1.25), Quantity: 180, Description: "Assorted fruit-flavored lollipops"},
	{Name: "Jelly Beans", Category: "Jelly", Price: decimal.NewFromFloat(3.50), Quantity: 80, Description: "Assorted flavored jelly beans"},
	{Name: "Peppermint Drops", Category: "Mints", Price: decimal.NewFromFloat(1.50), Quantity: 120, Description: "Refreshing peppermint drops"},
	{Name: "Butter Toffee", Category: "Toffee", Price: decimal.NewFromFloat(3.75), Quantity: 60, Description: "Smooth butter toffee pieces"},
	{Name: "Caramel Chews", Category: "Caramel", Price: decimal.NewFromFloat(2.99), Quantity: 90, Description: "Soft caramel chews"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.InitSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("inicializar esquema")
	}

	sweetRepo := postgres.NewSweetRepository(pool)
	existing, err := sweetRepo.List()
	if err != nil {
		log.Fatal().Err(err).Msg("listar catálogo")
	}
	if len(existing) > 0 {
		log.Info().Int("sweets", len(existing)).Msg("el catálogo ya tiene datos, no se siembra")
		return
	}

	eventRepo := postgres.NewStockEventRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Stock.LockTimeout)
	stockUC := inventory.NewStockUseCase(txRunner, eventRepo)

	for _, input := range sampleSweets {
		sweet, _, err := stockUC.Create(ctx, input)
		if err != nil {
			log.Fatal().Err(err).Str("name", input.Name).Msg("sembrar dulce")
		}
		log.Info().Str("id", sweet.ID).Str("name", sweet.Name).Int64("quantity", sweet.Quantity).Msg("dulce sembrado")
	}
	log.Info().Int("sweets", len(sampleSweets)).Msg("seed completado")
}
