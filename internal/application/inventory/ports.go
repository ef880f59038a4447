package inventory

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén,
// pasando repositorios atados a esa transacción. Si fn retorna error la
// transacción se aborta; si retorna nil se confirma. Garantiza que la
// escritura de stock y el evento del ledger se persisten como una sola
// unidad atómica: nunca se observa uno sin el otro.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sweetRepo repository.SweetRepository,
		eventRepo repository.StockEventRepository,
	) error) error
}
