package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sweet representa un dulce del catálogo con su stock actual.
// Quantity nunca es negativo; el único escritor de Quantity es el motor de
// inventario (application/inventory), siempre bajo bloqueo de fila.
type Sweet struct {
	ID          string
	Name        string
	Category    string
	Price       decimal.Decimal // precio unitario de venta, >= 0
	Quantity    int64           // unidades en stock, >= 0
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
