package repository

import "github.com/tu-usuario/carniceria-stock/internal/domain/entity"

// ProductRepository puerto de persistencia para productos.
// GetByName existe solo para la frontera de importación/datos legados; el núcleo
// del libro de movimientos trabaja siempre con el ID.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
