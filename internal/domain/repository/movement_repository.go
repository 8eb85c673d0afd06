package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
)

// MovementFilter filtro para listados del libro de movimientos.
type MovementFilter struct {
	LocationID string
	ProductID  string
	LotCode    string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MovementRepository puerto de persistencia del libro de movimientos (append-only).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// List devuelve movimientos filtrados, ordenados por fecha descendente.
	List(filter MovementFilter) ([]*entity.Movement, error)
	// ListByTransfer devuelve los movimientos asociados a un traslado.
	ListByTransfer(transferID string) ([]*entity.Movement, error)
	// ExistsForOrder indica si ya hay un movimiento con el mismo pedido, producto,
	// tipo y magnitud (guardia de idempotencia para transiciones repetidas).
	ExistsForOrder(orderID, productID, kind string, qty decimal.Decimal) (bool, error)
}
