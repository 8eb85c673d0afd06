package inventory

import "github.com/shopspring/decimal"

// Tipos de movimiento de stock (conjunto cerrado).
const (
	KindEntry       = "entry"        // entrada de mercancía (alta de lote)
	KindExit        = "exit"         // baja genérica / merma
	KindAdjustment  = "adjustment"   // ajuste de recuento al alza
	KindTransferOut = "transfer-out" // salida por traslado
	KindTransferIn  = "transfer-in"  // entrada por traslado
	KindFabrication = "fabrication"  // salida del obrador hacia tienda
	KindReturnOut   = "return-out"   // devolución a proveedor
	KindReturnIn    = "return-in"    // devolución de cliente
)

// IsValidKind indica si kind pertenece al conjunto cerrado de tipos.
func IsValidKind(kind string) bool {
	switch kind {
	case KindEntry, KindExit, KindAdjustment, KindTransferOut,
		KindTransferIn, KindFabrication, KindReturnOut, KindReturnIn:
		return true
	}
	return false
}

// Replenishes indica si el tipo repone stock en la ubicación (cantidad positiva).
func Replenishes(kind string) bool {
	switch kind {
	case KindEntry, KindAdjustment, KindTransferIn, KindReturnIn:
		return true
	}
	return false
}

// Depletes indica si el tipo consume stock en la ubicación (cantidad negativa).
func Depletes(kind string) bool {
	return IsValidKind(kind) && !Replenishes(kind)
}

// SignedQuantity deriva la cantidad con signo a partir del tipo de movimiento.
// El signo es función pura del tipo, nunca disciplina del llamador: qty llega
// siempre como magnitud sin signo y aquí se aplica la convención del libro.
func SignedQuantity(kind string, qty decimal.Decimal) decimal.Decimal {
	magnitude := qty.Abs()
	if Depletes(kind) {
		return magnitude.Neg()
	}
	return magnitude
}

// CreditsLot indica si el movimiento, cuando trae código de lote, debe abonar
// disponibilidad al lote (alta o reposición de la misma partida).
func CreditsLot(kind string) bool {
	return kind == KindEntry
}

// DebitsLot indica si el movimiento, cuando trae código de lote, debe descontar
// disponibilidad del lote. La entrada por traslado NO abona: el saldo del lote es
// global por producto y ya se descontó en la salida del origen.
func DebitsLot(kind string) bool {
	switch kind {
	case KindExit, KindTransferOut, KindFabrication, KindReturnOut:
		return true
	}
	return false
}
