package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del traslado entre ubicaciones.
// pending → sent → received (terminal); pending → cancelled (terminal).
const (
	TransferStatusPending   = "pending"
	TransferStatusSent      = "sent"
	TransferStatusReceived  = "received"
	TransferStatusCancelled = "cancelled"
)

// Transfer representa un traslado planificado o ejecutado de stock entre dos ubicaciones.
type Transfer struct {
	ID            string
	OriginID      string
	DestinationID string
	Notes         string
	RequestedBy   string
	Status        string
	Lines         []TransferLine
	SentAt        *time.Time
	ReceivedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransferLine es una línea de producto dentro de un traslado.
type TransferLine struct {
	ID         string
	TransferID string
	ProductID  string
	LotCode    string
	Quantity   decimal.Decimal
	Weight     decimal.Decimal
	Comment    string
}
