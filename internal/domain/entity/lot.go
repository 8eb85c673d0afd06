package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa una partida concreta de entrada de un producto.
// Identidad: (ProductID, Code) — única. Las cantidades disponibles nunca bajan de cero:
// los movimientos de salida se recortan en cero (clamp) en la capa de persistencia.
type Lot struct {
	ID              string
	ProductID       string
	Code            string
	InitialQty      decimal.Decimal
	InitialWeight   decimal.Decimal
	AvailableQty    decimal.Decimal
	AvailableWeight decimal.Decimal
	EntryDate       time.Time
	SupplierRef     string
	UnitCost        *decimal.Decimal
	SourceDoc       string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Exhausted indica si el lote ya no tiene disponibilidad ni en cantidad ni en peso.
func (l *Lot) Exhausted() bool {
	return l.AvailableQty.LessThanOrEqual(decimal.Zero) &&
		l.AvailableWeight.LessThanOrEqual(decimal.Zero)
}
