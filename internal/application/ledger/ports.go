package ledger

import (
	"context"

	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que el apunte en el libro y el ajuste del lote de un
// mismo movimiento se confirman juntos o no se confirma ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
	) error) error
}
