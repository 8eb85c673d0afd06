package transfer

import (
	"context"

	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// de traslados, movimientos y lotes atados a esa tx. La transición de estado y los
// movimientos que emite se confirman juntos (a lo sumo una vez por lado).
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
	) error) error
}
