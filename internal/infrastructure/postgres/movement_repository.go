package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee: los movimientos nunca se
// actualizan ni se borran.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento del libro.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, product_id, location_id, dest_location_id, lot_code,
		                       kind, quantity, unit, weight, reason, order_id, transfer_id,
		                       supplier_ref, unit_cost, source_doc, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.LocationID,
		nullable(movement.DestLocationID), nullable(movement.LotCode),
		movement.Kind, movement.Quantity, movement.Unit, movement.Weight,
		nullable(movement.Reason), nullable(movement.OrderID), nullable(movement.TransferID),
		nullable(movement.SupplierRef), movement.UnitCost, nullable(movement.SourceDoc),
		movement.Date, movement.CreatedAt, nullable(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := movementSelect + ` WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve movimientos filtrados por ubicación, producto, lote y rango de
// fechas, ordenados por fecha descendente.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE 1=1`
	var args []any
	pos := 1
	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.LotCode != "" {
		query += fmt.Sprintf(" AND lot_code = $%d", pos)
		args = append(args, filter.LotCode)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	return r.listMovements(query, args...)
}

// ListByTransfer devuelve los movimientos asociados a un traslado.
func (r *MovementRepo) ListByTransfer(transferID string) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE transfer_id = $1 ORDER BY date DESC`
	return r.listMovements(query, transferID)
}

// ExistsForOrder indica si ya hay un movimiento con el mismo pedido, producto, tipo
// y magnitud (guardia de idempotencia del adaptador de pedidos).
func (r *MovementRepo) ExistsForOrder(orderID, productID, kind string, qty decimal.Decimal) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM movements
			WHERE order_id = $1 AND product_id = $2 AND kind = $3 AND abs(quantity) = $4
		)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, orderID, productID, kind, qty.Abs()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists for order: %w", err)
	}
	return exists, nil
}

const movementSelect = `
	SELECT id, product_id, location_id, dest_location_id, lot_code, kind, quantity,
	       unit, weight, reason, order_id, transfer_id, supplier_ref, unit_cost,
	       source_doc, date, created_at, created_by
	FROM movements`

func (r *MovementRepo) listMovements(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var destLocation, lotCode, reason, orderID, transferID, supplierRef, sourceDoc, createdBy *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.LocationID, &destLocation, &lotCode, &m.Kind,
		&m.Quantity, &m.Unit, &m.Weight, &reason, &orderID, &transferID,
		&supplierRef, &m.UnitCost, &sourceDoc, &m.Date, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if destLocation != nil {
		m.DestLocationID = *destLocation
	}
	if lotCode != nil {
		m.LotCode = *lotCode
	}
	if reason != nil {
		m.Reason = *reason
	}
	if orderID != nil {
		m.OrderID = *orderID
	}
	if transferID != nil {
		m.TransferID = *transferID
	}
	if supplierRef != nil {
		m.SupplierRef = *supplierRef
	}
	if sourceDoc != nil {
		m.SourceDoc = *sourceDoc
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
