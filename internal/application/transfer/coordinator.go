package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/carniceria-stock/internal/application/ledger"
	"github.com/tu-usuario/carniceria-stock/internal/domain"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
	"github.com/tu-usuario/carniceria-stock/internal/domain/inventory"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// Coordinator conduce un traslado por su máquina de estados y llama al motor del
// libro en los puntos correctos, exactamente una vez por lado:
//
//	pending → sent (salidas en origen) → received (entradas en destino, terminal)
//	pending → cancelled (terminal, sin movimientos)
//
// El patrón es confirmación explícita (el confirm emite los movimientos); el alta
// con compromiso inmediato de la fuente original queda como conveniencia Register,
// que pasa por la misma máquina de estados.
type Coordinator struct {
	txRunner     TxRunner
	engine       *ledger.Engine
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	transferRepo repository.TransferRepository
}

// NewCoordinator construye el coordinador. transferRepo atado al pool se usa solo
// para lecturas; toda transición de estado pasa por txRunner.
func NewCoordinator(
	txRunner TxRunner,
	engine *ledger.Engine,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	transferRepo repository.TransferRepository,
) *Coordinator {
	return &Coordinator{
		txRunner:     txRunner,
		engine:       engine,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		transferRepo: transferRepo,
	}
}

// LineInput línea de producto para crear un traslado.
type LineInput struct {
	ProductID string
	LotCode   string
	Quantity  decimal.Decimal
	Weight    decimal.Decimal
	Comment   string
}

// CreateInput entrada para crear un traslado.
type CreateInput struct {
	OriginID      string
	DestinationID string
	Notes         string
	RequestedBy   string
	Lines         []LineInput
}

// Create valida y persiste el traslado en estado pending, sin movimientos de stock.
func (c *Coordinator) Create(ctx context.Context, input CreateInput) (*entity.Transfer, error) {
	if input.OriginID == "" || input.DestinationID == "" || input.OriginID == input.DestinationID {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if line.Weight.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	origin, err := c.locationRepo.GetByID(input.OriginID)
	if err != nil {
		return nil, err
	}
	dest, err := c.locationRepo.GetByID(input.DestinationID)
	if err != nil {
		return nil, err
	}
	if origin == nil || dest == nil {
		return nil, domain.ErrNotFound
	}
	for _, line := range input.Lines {
		product, err := c.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	tr := &entity.Transfer{
		OriginID:      input.OriginID,
		DestinationID: input.DestinationID,
		Notes:         input.Notes,
		RequestedBy:   input.RequestedBy,
		Status:        entity.TransferStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, line := range input.Lines {
		tr.Lines = append(tr.Lines, entity.TransferLine{
			ProductID: line.ProductID,
			LotCode:   line.LotCode,
			Quantity:  line.Quantity,
			Weight:    line.Weight.Abs(),
			Comment:   line.Comment,
		})
	}

	err = c.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.MovementRepository,
		_ repository.LotRepository,
	) error {
		return transferRepo.Create(tr)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Register crea el traslado y lo confirma en el acto (compromiso inmediato): el
// stock se considera movido en cuanto el traslado queda registrado. Conveniencia
// para el mostrador; pasa por la misma máquina de estados que Confirm.
func (c *Coordinator) Register(ctx context.Context, input CreateInput) (*entity.Transfer, error) {
	tr, err := c.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return c.Confirm(ctx, tr.ID)
}

// Send transiciona pending → sent registrando la salida (transfer-out) de cada
// línea en la ubicación de origen, dentro de la misma transacción que el cambio
// de estado.
func (c *Coordinator) Send(ctx context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := c.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
	) error {
		tr, err := transferRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		if tr.Status != entity.TransferStatusPending {
			return domain.ErrConflict
		}
		now := time.Now()
		ok, err := transferRepo.UpdateStatusIf(tr.ID, entity.TransferStatusPending, entity.TransferStatusSent, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		if err := c.recordSide(movRepo, lotRepo, tr, inventory.KindTransferOut, now); err != nil {
			return err
		}
		tr.Status = entity.TransferStatusSent
		tr.SentAt = &now
		out = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Confirm lleva el traslado al estado terminal received y registra los movimientos
// pendientes: desde pending ambos lados (salida en origen y entrada en destino),
// desde sent solo la entrada en destino. Idempotente: confirmar un traslado ya
// recibido devuelve el traslado sin registrar nada; confirmar uno cancelado es un
// conflicto.
func (c *Coordinator) Confirm(ctx context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := c.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
	) error {
		tr, err := transferRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		switch tr.Status {
		case entity.TransferStatusReceived:
			out = tr
			return nil
		case entity.TransferStatusCancelled:
			return domain.ErrConflict
		}

		now := time.Now()
		needsOut := tr.Status == entity.TransferStatusPending
		ok, err := transferRepo.UpdateStatusIf(tr.ID, tr.Status, entity.TransferStatusReceived, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		if needsOut {
			if err := c.recordSide(movRepo, lotRepo, tr, inventory.KindTransferOut, now); err != nil {
				return err
			}
		}
		if err := c.recordSide(movRepo, lotRepo, tr, inventory.KindTransferIn, now); err != nil {
			return err
		}
		tr.Status = entity.TransferStatusReceived
		tr.ReceivedAt = &now
		if tr.SentAt == nil {
			tr.SentAt = &now
		}
		out = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel transiciona pending → cancelled. Terminal, sin movimientos; cualquier otro
// estado de partida es un conflicto.
func (c *Coordinator) Cancel(ctx context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := c.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.MovementRepository,
		_ repository.LotRepository,
	) error {
		tr, err := transferRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		if tr.Status != entity.TransferStatusPending {
			return domain.ErrConflict
		}
		now := time.Now()
		ok, err := transferRepo.UpdateStatusIf(tr.ID, entity.TransferStatusPending, entity.TransferStatusCancelled, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		tr.Status = entity.TransferStatusCancelled
		out = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve el traslado con sus líneas.
func (c *Coordinator) Get(ctx context.Context, id string) (*entity.Transfer, error) {
	tr, err := c.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, domain.ErrNotFound
	}
	return tr, nil
}

// recordSide registra un lado del traslado (salida en origen o entrada en destino)
// para cada línea con cantidad positiva. Las líneas comentario (cantidad cero) se
// omiten.
func (c *Coordinator) recordSide(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	tr *entity.Transfer,
	kind string,
	now time.Time,
) error {
	for _, line := range tr.Lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		input := ledger.MovementInput{
			ProductID:  line.ProductID,
			Kind:       kind,
			Quantity:   line.Quantity,
			LotCode:    line.LotCode,
			Weight:     line.Weight,
			TransferID: tr.ID,
			Reason:     fmt.Sprintf("traslado %s → %s", tr.OriginID, tr.DestinationID),
			CreatedBy:  tr.RequestedBy,
		}
		if kind == inventory.KindTransferOut {
			input.LocationID = tr.OriginID
			input.DestLocationID = tr.DestinationID
		} else {
			input.LocationID = tr.DestinationID
		}
		if _, err := c.engine.RecordInTx(movRepo, lotRepo, input, now); err != nil {
			return err
		}
	}
	return nil
}
