package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferLineRequest línea de producto para crear un traslado.
type TransferLineRequest struct {
	ProductID string          `json:"product_id"`
	LotCode   string          `json:"lot_code,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Weight    decimal.Decimal `json:"weight,omitempty"`
	Comment   string          `json:"comment,omitempty"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	OriginID      string                `json:"origin_id"`
	DestinationID string                `json:"destination_id"`
	Notes         string                `json:"notes,omitempty"`
	RequestedBy   string                `json:"requested_by,omitempty"`
	Lines         []TransferLineRequest `json:"lines"`
}

// TransferLineResponse línea de traslado en respuestas.
type TransferLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	LotCode   string          `json:"lot_code,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Weight    decimal.Decimal `json:"weight"`
	Comment   string          `json:"comment,omitempty"`
}

// TransferResponse un traslado con sus líneas.
type TransferResponse struct {
	ID            string                 `json:"id"`
	OriginID      string                 `json:"origin_id"`
	DestinationID string                 `json:"destination_id"`
	Notes         string                 `json:"notes,omitempty"`
	RequestedBy   string                 `json:"requested_by,omitempty"`
	Status        string                 `json:"status"`
	Lines         []TransferLineResponse `json:"lines"`
	SentAt        *time.Time             `json:"sent_at,omitempty"`
	ReceivedAt    *time.Time             `json:"received_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}
