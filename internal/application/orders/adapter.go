package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/carniceria-stock/internal/application/ledger"
	"github.com/tu-usuario/carniceria-stock/internal/domain"
	"github.com/tu-usuario/carniceria-stock/internal/domain/inventory"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// Adapter traduce transiciones del ciclo de vida de pedidos en llamadas al motor
// del libro. Sin estado propio más allá del que ya lleva el pedido.
type Adapter struct {
	txRunner ledger.TxRunner
	engine   *ledger.Engine
}

// NewAdapter construye el adaptador de pedidos.
func NewAdapter(txRunner ledger.TxRunner, engine *ledger.Engine) *Adapter {
	return &Adapter{txRunner: txRunner, engine: engine}
}

// OrderLine línea de pedido relevante para stock. Las líneas comentario
// (IsComment o cantidad cero) no generan movimientos.
type OrderLine struct {
	ProductID string
	LotCode   string
	Quantity  decimal.Decimal
	Weight    decimal.Decimal
	IsComment bool
}

// DispatchInput pedido de obrador que pasa a "expedido a tienda".
type DispatchInput struct {
	OrderID    string
	FactoryID  string
	StoreID    string
	Lines      []OrderLine
	DispatchBy string
}

// DispatchFactoryOrder registra, por cada línea expedida, la salida (transfer-out)
// en el obrador y la entrada (transfer-in) en la tienda, ambas ligadas al pedido.
// Idempotente por línea y lado: una transición repetida no vuelve a registrar un
// movimiento que ya existe para el mismo pedido, producto, tipo y magnitud.
func (a *Adapter) DispatchFactoryOrder(ctx context.Context, input DispatchInput) error {
	if input.OrderID == "" || input.FactoryID == "" || input.StoreID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return a.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
	) error {
		for _, line := range input.Lines {
			if line.IsComment || !line.Quantity.GreaterThan(decimal.Zero) {
				continue
			}
			sides := []struct {
				kind     string
				location string
				dest     string
			}{
				{inventory.KindTransferOut, input.FactoryID, input.StoreID},
				{inventory.KindTransferIn, input.StoreID, ""},
			}
			for _, side := range sides {
				exists, err := movRepo.ExistsForOrder(input.OrderID, line.ProductID, side.kind, line.Quantity)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				_, err = a.engine.RecordInTx(movRepo, lotRepo, ledger.MovementInput{
					LocationID:     side.location,
					DestLocationID: side.dest,
					ProductID:      line.ProductID,
					Kind:           side.kind,
					Quantity:       line.Quantity,
					LotCode:        line.LotCode,
					Weight:         line.Weight,
					OrderID:        input.OrderID,
					Reason:         fmt.Sprintf("expedición obrador pedido %s", input.OrderID),
					CreatedBy:      input.DispatchBy,
				}, now)
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ShipInput pedido de cliente que sale del almacén central.
type ShipInput struct {
	OrderID   string
	CentralID string
	Lines     []OrderLine
	ShippedBy string
}

// ShipClientOrder registra una salida (exit) en el central por cada línea con
// cantidad del pedido de cliente. Sin efecto sobre lotes salvo que la línea
// traiga código de lote.
func (a *Adapter) ShipClientOrder(ctx context.Context, input ShipInput) error {
	if input.OrderID == "" || input.CentralID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return a.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
	) error {
		for _, line := range input.Lines {
			if line.IsComment || !line.Quantity.GreaterThan(decimal.Zero) {
				continue
			}
			_, err := a.engine.RecordInTx(movRepo, lotRepo, ledger.MovementInput{
				LocationID: input.CentralID,
				ProductID:  line.ProductID,
				Kind:       inventory.KindExit,
				Quantity:   line.Quantity,
				LotCode:    line.LotCode,
				Weight:     line.Weight,
				OrderID:    input.OrderID,
				Reason:     fmt.Sprintf("envío pedido cliente %s", input.OrderID),
				CreatedBy:  input.ShippedBy,
			}, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReturnInput devolución parcial o total de un pedido de cliente.
type ReturnInput struct {
	OrderID    string
	CentralID  string
	Lines      []OrderLine
	ReceivedBy string
}

// ReturnClientOrder registra una entrada por devolución (return-in) en el central
// por cada línea devuelta. El signo lo deriva el motor del tipo: el llamador nunca
// niega cantidades.
func (a *Adapter) ReturnClientOrder(ctx context.Context, input ReturnInput) error {
	if input.OrderID == "" || input.CentralID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return a.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
	) error {
		for _, line := range input.Lines {
			if line.IsComment || !line.Quantity.GreaterThan(decimal.Zero) {
				continue
			}
			_, err := a.engine.RecordInTx(movRepo, lotRepo, ledger.MovementInput{
				LocationID: input.CentralID,
				ProductID:  line.ProductID,
				Kind:       inventory.KindReturnIn,
				Quantity:   line.Quantity,
				LotCode:    line.LotCode,
				Weight:     line.Weight,
				OrderID:    input.OrderID,
				Reason:     fmt.Sprintf("devolución pedido cliente %s", input.OrderID),
				CreatedBy:  input.ReceivedBy,
			}, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
