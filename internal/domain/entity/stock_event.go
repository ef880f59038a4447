package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento de stock.
const (
	EventTypeCREATE     = "CREATE"     // alta del dulce (delta = stock inicial)
	EventTypePURCHASE   = "PURCHASE"   // venta (delta negativo)
	EventTypeRESTOCK    = "RESTOCK"    // reposición (delta positivo)
	EventTypeADJUSTMENT = "ADJUSTMENT" // corrección manual (delta con signo)
)

// StockEvent es el registro inmutable de un cambio de stock. Solo se agrega,
// nunca se modifica ni se borra individualmente; se elimina en cascada
// únicamente si el dulce desaparece del catálogo.
type StockEvent struct {
	ID                string
	SweetID           string
	Type              string
	Delta             int64           // cambio con signo aplicado al stock
	ResultingQuantity int64           // stock resultante tras aplicar Delta
	TotalValue        decimal.Decimal // PURCHASE: cantidad × precio al momento; cero en el resto
	ActorID           string          // comprador u operador; vacío si no aplica
	CreatedAt         time.Time
}
