package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
)

// LotProvenance datos de origen capturados al crear un lote con la primera entrada.
type LotProvenance struct {
	SupplierRef string
	UnitCost    *decimal.Decimal
	SourceDoc   string
	Notes       string
	EntryDate   time.Time
}

// DebitResult resultado de un descuento atómico sobre un lote.
// Found es false si el lote no existe (el movimiento se registra igual; condición
// de calidad de datos, no error). PrevQty/PrevWeight son los disponibles ANTES del
// descuento: permiten detectar el recorte en cero sin una segunda lectura.
type DebitResult struct {
	Found      bool
	PrevQty    decimal.Decimal
	PrevWeight decimal.Decimal
}

// LotRepository puerto de persistencia para lotes.
// Credit y Debit deben ser operaciones atómicas de incremento/decremento en la capa
// de almacenamiento (nunca leer-modificar-escribir en la aplicación): dos descuentos
// concurrentes sobre el mismo lote deben aplicarse ambos.
type LotRepository interface {
	// Credit abona cantidad y peso al lote (product, code); si no existe lo crea con
	// inicial = disponible = el importe abonado, capturando la procedencia.
	Credit(productID, lotCode string, qty, weight decimal.Decimal, prov LotProvenance) error
	// Debit descuenta cantidad y peso del lote si existe, con recorte en cero
	// (GREATEST(0, ...)); no-op si el lote no existe.
	Debit(productID, lotCode string, qty, weight decimal.Decimal) (DebitResult, error)
	GetByProductAndCode(productID, lotCode string) (*entity.Lot, error)
	// ListAvailableByProduct devuelve los lotes con cantidad o peso disponible > 0,
	// ordenados por fecha de entrada ascendente (el más antiguo primero, para
	// selección manual tipo FIFO).
	ListAvailableByProduct(productID string) ([]*entity.Lot, error)
	// ListByProduct devuelve todos los lotes del producto, agotados incluidos
	// (trazabilidad), ordenados por fecha de entrada ascendente.
	ListByProduct(productID string) ([]*entity.Lot, error)
}
