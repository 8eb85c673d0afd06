package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// Quantity y Weight son magnitudes sin signo: el signo lo deriva el motor del tipo.
type RecordMovementRequest struct {
	LocationID     string           `json:"location_id"`
	DestLocationID string           `json:"dest_location_id,omitempty"`
	ProductID      string           `json:"product_id"`
	Kind           string           `json:"kind"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit,omitempty"`
	LotCode        string           `json:"lot_code,omitempty"`
	Weight         decimal.Decimal  `json:"weight,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	OrderID        string           `json:"order_id,omitempty"`
	TransferID     string           `json:"transfer_id,omitempty"`
	SupplierRef    string           `json:"supplier_ref,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	SourceDoc      string           `json:"source_doc,omitempty"`
	CreatedBy      string           `json:"created_by,omitempty"`
}

// MovementResponse un movimiento del libro en respuestas HTTP.
type MovementResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	LocationID     string           `json:"location_id"`
	DestLocationID string           `json:"dest_location_id,omitempty"`
	LotCode        string           `json:"lot_code,omitempty"`
	Kind           string           `json:"kind"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit"`
	Weight         decimal.Decimal  `json:"weight"`
	Reason         string           `json:"reason,omitempty"`
	OrderID        string           `json:"order_id,omitempty"`
	TransferID     string           `json:"transfer_id,omitempty"`
	SupplierRef    string           `json:"supplier_ref,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	SourceDoc      string           `json:"source_doc,omitempty"`
	Date           time.Time        `json:"date"`
	CreatedBy      string           `json:"created_by,omitempty"`
}

// RecordMovementResponse respuesta de registro: el movimiento creado más los avisos
// de calidad de datos (lote inexistente, recorte en cero), nunca descartados.
type RecordMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Warnings []string         `json:"warnings,omitempty"`
}

// LotResponse un lote en respuestas HTTP.
type LotResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	Code            string           `json:"code"`
	InitialQty      decimal.Decimal  `json:"initial_qty"`
	InitialWeight   decimal.Decimal  `json:"initial_weight"`
	AvailableQty    decimal.Decimal  `json:"available_qty"`
	AvailableWeight decimal.Decimal  `json:"available_weight"`
	EntryDate       time.Time        `json:"entry_date"`
	SupplierRef     string           `json:"supplier_ref,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	SourceDoc       string           `json:"source_doc,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}
