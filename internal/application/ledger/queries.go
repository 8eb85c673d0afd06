package ledger

import (
	"context"

	"github.com/tu-usuario/carniceria-stock/internal/domain"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// ListMovements devuelve movimientos filtrados, ordenados por fecha descendente.
func (e *Engine) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return e.movementRepo.List(filter)
}

// ListAvailableLots devuelve los lotes del producto con cantidad o peso disponible
// mayor que cero, ordenados por fecha de entrada ascendente (el más antiguo primero).
func (e *Engine) ListAvailableLots(ctx context.Context, productID string) ([]*entity.Lot, error) {
	product, err := e.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return e.lotRepo.ListAvailableByProduct(productID)
}

// ListLotHistory devuelve todos los lotes del producto, agotados incluidos
// (trazabilidad de partidas).
func (e *Engine) ListLotHistory(ctx context.Context, productID string) ([]*entity.Lot, error) {
	product, err := e.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return e.lotRepo.ListByProduct(productID)
}
