package dto

import "github.com/shopspring/decimal"

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	PricePerKg decimal.Decimal `json:"price_per_kg,omitempty"`
}

// ProductResponse un producto en respuestas.
type ProductResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
}

// CreateLocationRequest alta de ubicación (tienda, central u obrador).
type CreateLocationRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Address string `json:"address,omitempty"`
}

// LocationResponse una ubicación en respuestas.
type LocationResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Address string `json:"address,omitempty"`
}
