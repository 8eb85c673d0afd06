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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
// Credit y Debit son sentencias atómicas: nunca leer-modificar-escribir en la
// aplicación, para que dos descuentos concurrentes sobre el mismo lote se apliquen
// ambos.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Credit abona cantidad y peso al lote; si no existe lo crea con
// inicial = disponible = el importe abonado, capturando la procedencia.
// La procedencia de la primera entrada prevalece: el upsert solo incrementa
// los disponibles.
func (r *LotRepo) Credit(productID, lotCode string, qty, weight decimal.Decimal, prov repository.LotProvenance) error {
	query := `
		INSERT INTO lots (id, product_id, code, initial_qty, initial_weight,
		                  available_qty, available_weight, entry_date,
		                  supplier_ref, unit_cost, source_doc, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (product_id, code) DO UPDATE SET
			available_qty    = lots.available_qty + EXCLUDED.available_qty,
			available_weight = lots.available_weight + EXCLUDED.available_weight,
			updated_at       = now()`
	_, err := r.q.Exec(context.Background(), query,
		uuid.New().String(), productID, lotCode, qty, weight,
		prov.EntryDate, prov.SupplierRef, prov.UnitCost, prov.SourceDoc, prov.Notes,
	)
	if err != nil {
		return fmt.Errorf("credit lot: %w", err)
	}
	return nil
}

// Debit descuenta cantidad y peso con recorte en cero (GREATEST), en una sola
// sentencia con bloqueo de fila. Devuelve los disponibles previos para que el
// motor detecte el recorte; Found false si el lote no existe (no-op).
func (r *LotRepo) Debit(productID, lotCode string, qty, weight decimal.Decimal) (repository.DebitResult, error) {
	query := `
		UPDATE lots SET
			available_qty    = GREATEST(0, lots.available_qty - $3),
			available_weight = GREATEST(0, lots.available_weight - $4),
			updated_at       = now()
		FROM (
			SELECT id, available_qty AS prev_qty, available_weight AS prev_weight
			FROM lots WHERE product_id = $1 AND code = $2
			FOR UPDATE
		) prev
		WHERE lots.id = prev.id
		RETURNING prev.prev_qty, prev.prev_weight`
	var res repository.DebitResult
	err := r.q.QueryRow(context.Background(), query, productID, lotCode, qty, weight).Scan(
		&res.PrevQty, &res.PrevWeight,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.DebitResult{Found: false}, nil
		}
		return res, fmt.Errorf("debit lot: %w", err)
	}
	res.Found = true
	return res, nil
}

// GetByProductAndCode obtiene un lote por (producto, código).
func (r *LotRepo) GetByProductAndCode(productID, lotCode string) (*entity.Lot, error) {
	query := lotSelect + ` WHERE product_id = $1 AND code = $2`
	row := r.q.QueryRow(context.Background(), query, productID, lotCode)
	lot, err := scanLot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// ListAvailableByProduct lotes con cantidad o peso disponible > 0, el más antiguo primero.
func (r *LotRepo) ListAvailableByProduct(productID string) ([]*entity.Lot, error) {
	query := lotSelect + `
		WHERE product_id = $1 AND (available_qty > 0 OR available_weight > 0)
		ORDER BY entry_date ASC`
	return r.listLots(query, productID)
}

// ListByProduct todos los lotes del producto, agotados incluidos.
func (r *LotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	query := lotSelect + ` WHERE product_id = $1 ORDER BY entry_date ASC`
	return r.listLots(query, productID)
}

const lotSelect = `
	SELECT id, product_id, code, initial_qty, initial_weight,
	       available_qty, available_weight, entry_date,
	       supplier_ref, unit_cost, source_doc, notes, created_at, updated_at
	FROM lots`

func (r *LotRepo) listLots(query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	var supplierRef, sourceDoc, notes *string
	err := row.Scan(
		&l.ID, &l.ProductID, &l.Code, &l.InitialQty, &l.InitialWeight,
		&l.AvailableQty, &l.AvailableWeight, &l.EntryDate,
		&supplierRef, &l.UnitCost, &sourceDoc, &notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if supplierRef != nil {
		l.SupplierRef = *supplierRef
	}
	if sourceDoc != nil {
		l.SourceDoc = *sourceDoc
	}
	if notes != nil {
		l.Notes = *notes
	}
	return &l, nil
}
