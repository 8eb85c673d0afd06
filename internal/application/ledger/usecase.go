package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/carniceria-stock/internal/domain"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
	"github.com/tu-usuario/carniceria-stock/internal/domain/inventory"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// Engine es el punto de entrada único del libro de movimientos: valida y registra
// un movimiento de stock y aplica, cuando el tipo lo implica, el efecto sobre el
// lote correspondiente. Sin más efectos secundarios (ni correo, ni notificaciones:
// eso es cosa de los adaptadores).
type Engine struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	movementRepo repository.MovementRepository
	lotRepo      repository.LotRepository
}

// NewEngine construye el motor del libro. movementRepo y lotRepo atados al pool se
// usan solo para consultas; las escrituras van siempre por txRunner.
func NewEngine(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	movementRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
) *Engine {
	return &Engine{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		movementRepo: movementRepo,
		lotRepo:      lotRepo,
	}
}

// MovementInput entrada para registrar un movimiento. Quantity y Weight llegan como
// magnitudes sin signo: el signo lo deriva el motor del tipo de movimiento.
type MovementInput struct {
	LocationID     string
	DestLocationID string // solo traslados
	ProductID      string
	Kind           string
	Quantity       decimal.Decimal
	Unit           string
	LotCode        string
	Weight         decimal.Decimal
	Reason         string
	OrderID        string
	TransferID     string
	SupplierRef    string
	UnitCost       *decimal.Decimal
	SourceDoc      string
	CreatedBy      string
}

// RecordResult resultado de registrar un movimiento. Warnings recoge condiciones de
// calidad de datos no fatales (lote inexistente, disponibilidad recortada en cero);
// nunca se descartan en silencio: se devuelven al llamador y se registran en el log.
type RecordResult struct {
	Movement *entity.Movement
	Warnings []string
}

// RecordMovement valida la entrada, resuelve producto y ubicación, y registra el
// movimiento con su efecto sobre el lote dentro de una única transacción.
func (e *Engine) RecordMovement(ctx context.Context, input MovementInput) (*RecordResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := e.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := e.locationRepo.GetByID(input.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if input.DestLocationID != "" {
		dest, err := e.locationRepo.GetByID(input.DestLocationID)
		if err != nil {
			return nil, err
		}
		if dest == nil {
			return nil, domain.ErrNotFound
		}
	}
	if input.Unit == "" {
		input.Unit = product.Unit
	}

	now := time.Now()
	var result *RecordResult
	err = e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
	) error {
		r, err := e.RecordInTx(movRepo, lotRepo, input, now)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordInTx registra un movimiento usando los repositorios proporcionados (misma
// transacción del caller). Lo usan el coordinador de traslados y el adaptador de
// pedidos para agrupar varios movimientos en una sola transacción.
// Asume la entrada ya validada por el caller o por RecordMovement.
func (e *Engine) RecordInTx(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	input MovementInput,
	now time.Time,
) (*RecordResult, error) {
	if !inventory.IsValidKind(input.Kind) || input.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	qty := input.Quantity.Abs()
	weight := input.Weight.Abs()

	mov := &entity.Movement{
		ProductID:      input.ProductID,
		LocationID:     input.LocationID,
		DestLocationID: input.DestLocationID,
		LotCode:        input.LotCode,
		Kind:           input.Kind,
		Quantity:       inventory.SignedQuantity(input.Kind, qty),
		Unit:           input.Unit,
		Weight:         weight,
		Reason:         input.Reason,
		OrderID:        input.OrderID,
		TransferID:     input.TransferID,
		SupplierRef:    input.SupplierRef,
		UnitCost:       input.UnitCost,
		SourceDoc:      input.SourceDoc,
		Date:           now,
		CreatedAt:      now,
		CreatedBy:      input.CreatedBy,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}

	result := &RecordResult{Movement: mov}
	if input.LotCode == "" {
		return result, nil
	}

	switch {
	case inventory.CreditsLot(input.Kind):
		prov := repository.LotProvenance{
			SupplierRef: input.SupplierRef,
			UnitCost:    input.UnitCost,
			SourceDoc:   input.SourceDoc,
			Notes:       input.Reason,
			EntryDate:   now,
		}
		if err := lotRepo.Credit(input.ProductID, input.LotCode, qty, weight, prov); err != nil {
			return nil, err
		}
	case inventory.DebitsLot(input.Kind):
		res, err := lotRepo.Debit(input.ProductID, input.LotCode, qty, weight)
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, debitWarnings(input, qty, weight, res)...)
	}
	return result, nil
}

// debitWarnings traduce el resultado del descuento en avisos de calidad de datos.
func debitWarnings(input MovementInput, qty, weight decimal.Decimal, res repository.DebitResult) []string {
	var warnings []string
	if !res.Found {
		warnings = append(warnings, fmt.Sprintf(
			"lote %q inexistente para el producto %s: movimiento registrado sin ajuste de lote",
			input.LotCode, input.ProductID))
		log.Warn().
			Str("product_id", input.ProductID).
			Str("lot_code", input.LotCode).
			Str("kind", input.Kind).
			Msg("movimiento de salida sobre lote inexistente")
		return warnings
	}
	if res.PrevQty.LessThan(qty) {
		warnings = append(warnings, fmt.Sprintf(
			"lote %q: cantidad disponible %s menor que la solicitada %s; recortada en cero",
			input.LotCode, res.PrevQty, qty))
		log.Warn().
			Str("product_id", input.ProductID).
			Str("lot_code", input.LotCode).
			Str("available", res.PrevQty.String()).
			Str("requested", qty.String()).
			Msg("disponibilidad de lote recortada en cero (cantidad)")
	}
	if weight.GreaterThan(decimal.Zero) && res.PrevWeight.LessThan(weight) {
		warnings = append(warnings, fmt.Sprintf(
			"lote %q: peso disponible %s menor que el solicitado %s; recortado en cero",
			input.LotCode, res.PrevWeight, weight))
		log.Warn().
			Str("product_id", input.ProductID).
			Str("lot_code", input.LotCode).
			Str("available_kg", res.PrevWeight.String()).
			Str("requested_kg", weight.String()).
			Msg("disponibilidad de lote recortada en cero (peso)")
	}
	return warnings
}

// validateInput comprueba los campos obligatorios antes de cualquier escritura.
func validateInput(input MovementInput) error {
	if input.LocationID == "" || input.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if input.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	if !inventory.IsValidKind(input.Kind) {
		return domain.ErrInvalidInput
	}
	if input.Weight.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}
