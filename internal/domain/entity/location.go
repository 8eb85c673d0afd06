package entity

import "time"

// Tipos de ubicación.
const (
	LocationKindStore   = "store"   // tienda
	LocationKindCentral = "central" // almacén central
	LocationKindFactory = "factory" // obrador / fábrica
)

// Location representa una tienda, el almacén central o el obrador.
// Para el libro de movimientos es un identificador opaco.
type Location struct {
	ID        string
	Name      string
	Kind      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
