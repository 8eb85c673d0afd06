package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la carnicería (referenciado por los movimientos y lotes).
// El nombre es único; la resolución por nombre solo se usa en la frontera de importación
// de datos legados — el núcleo siempre trabaja con el ID.
type Product struct {
	ID         string
	Name       string // único
	Unit       string // "kg" o "ud"
	PricePerKg decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
