package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement es un registro inmutable del libro de movimientos de stock.
// Nunca se actualiza ni se borra: las correcciones se hacen registrando un
// movimiento compensatorio.
type Movement struct {
	ID             string
	ProductID      string
	LocationID     string
	DestLocationID string // solo traslados: ubicación que recibe
	LotCode        string
	Kind           string
	Quantity       decimal.Decimal // con signo según el tipo de movimiento
	Unit           string
	Weight         decimal.Decimal // magnitud siempre positiva; el sentido lo da Kind
	Reason         string
	OrderID        string
	TransferID     string
	SupplierRef    string
	UnitCost       *decimal.Decimal
	SourceDoc      string
	Date           time.Time
	CreatedAt      time.Time
	CreatedBy      string
}
