package repository

import "github.com/tu-usuario/carniceria-stock/internal/domain/entity"

// LocationRepository puerto de persistencia para ubicaciones (tiendas, central, obrador).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	List(limit, offset int) ([]*entity.Location, error)
}
