package repository

import (
	"time"

	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
)

// TransferRepository puerto de persistencia para traslados.
type TransferRepository interface {
	// Create persiste el traslado con sus líneas.
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	// GetForUpdate obtiene el traslado con sus líneas bloqueando la fila
	// (SELECT FOR UPDATE) para serializar las transiciones de estado.
	GetForUpdate(id string) (*entity.Transfer, error)
	// UpdateStatusIf transiciona el estado solo si el actual coincide con expected
	// (guardia atómica de la máquina de estados). Devuelve false si no aplicó.
	UpdateStatusIf(id, expected, next string, at time.Time) (bool, error)
}
