package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL
// (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste el traslado con sus líneas.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfers (id, origin_id, destination_id, notes, requested_by,
		                       status, sent_at, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.OriginID, transfer.DestinationID,
		nullable(transfer.Notes), nullable(transfer.RequestedBy),
		transfer.Status, transfer.SentAt, transfer.ReceivedAt,
		transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}

	lineQuery := `
		INSERT INTO transfer_lines (id, transfer_id, product_id, lot_code, quantity, weight, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range transfer.Lines {
		line := &transfer.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.TransferID = transfer.ID
		_, err := r.q.Exec(context.Background(), lineQuery,
			line.ID, line.TransferID, line.ProductID, nullable(line.LotCode),
			line.Quantity, line.Weight, nullable(line.Comment),
		)
		if err != nil {
			return fmt.Errorf("create transfer line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el traslado con sus líneas.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene el traslado bloqueando la fila (SELECT FOR UPDATE) para
// serializar las transiciones de estado concurrentes.
func (r *TransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	return r.get(id, true)
}

func (r *TransferRepo) get(id string, forUpdate bool) (*entity.Transfer, error) {
	query := `
		SELECT id, origin_id, destination_id, notes, requested_by, status,
		       sent_at, received_at, created_at, updated_at
		FROM transfers WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var t entity.Transfer
	var notes, requestedBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.OriginID, &t.DestinationID, &notes, &requestedBy, &t.Status,
		&t.SentAt, &t.ReceivedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if notes != nil {
		t.Notes = *notes
	}
	if requestedBy != nil {
		t.RequestedBy = *requestedBy
	}

	lines, err := r.lines(t.ID)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return &t, nil
}

func (r *TransferRepo) lines(transferID string) ([]entity.TransferLine, error) {
	query := `
		SELECT id, transfer_id, product_id, lot_code, quantity, weight, comment
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.TransferLine
	for rows.Next() {
		var l entity.TransferLine
		var lotCode, comment *string
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ProductID, &lotCode, &l.Quantity, &l.Weight, &comment); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		if lotCode != nil {
			l.LotCode = *lotCode
		}
		if comment != nil {
			l.Comment = *comment
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateStatusIf transiciona el estado solo si el actual coincide con expected
// (guardia atómica de la máquina de estados). sent_at/received_at se sellan según
// el estado de llegada. Devuelve false si la fila no estaba en expected.
func (r *TransferRepo) UpdateStatusIf(id, expected, next string, at time.Time) (bool, error) {
	query := `
		UPDATE transfers SET
			status      = $3,
			sent_at     = CASE WHEN $3 IN ('sent', 'received') AND sent_at IS NULL THEN $4 ELSE sent_at END,
			received_at = CASE WHEN $3 = 'received' THEN $4 ELSE received_at END,
			updated_at  = $4
		WHERE id = $1 AND status = $2`
	cmd, err := r.q.Exec(context.Background(), query, id, expected, next, at)
	if err != nil {
		return false, fmt.Errorf("update transfer status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
