package dto

import "github.com/shopspring/decimal"

// OrderLineRequest línea de pedido relevante para stock.
type OrderLineRequest struct {
	ProductID string          `json:"product_id"`
	LotCode   string          `json:"lot_code,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Weight    decimal.Decimal `json:"weight,omitempty"`
	IsComment bool            `json:"is_comment,omitempty"`
}

// DispatchFactoryOrderRequest body para POST /api/orders/factory/dispatch.
type DispatchFactoryOrderRequest struct {
	OrderID    string             `json:"order_id"`
	FactoryID  string             `json:"factory_id"`
	StoreID    string             `json:"store_id"`
	Lines      []OrderLineRequest `json:"lines"`
	DispatchBy string             `json:"dispatch_by,omitempty"`
}

// ShipClientOrderRequest body para POST /api/orders/client/ship.
type ShipClientOrderRequest struct {
	OrderID   string             `json:"order_id"`
	CentralID string             `json:"central_id"`
	Lines     []OrderLineRequest `json:"lines"`
	ShippedBy string             `json:"shipped_by,omitempty"`
}

// ReturnClientOrderRequest body para POST /api/orders/client/return.
type ReturnClientOrderRequest struct {
	OrderID    string             `json:"order_id"`
	CentralID  string             `json:"central_id"`
	Lines      []OrderLineRequest `json:"lines"`
	ReceivedBy string             `json:"received_by,omitempty"`
}
