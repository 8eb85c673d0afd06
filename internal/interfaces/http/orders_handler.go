package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/carniceria-stock/internal/application/dto"
	"github.com/tu-usuario/carniceria-stock/internal/application/orders"
	"github.com/tu-usuario/carniceria-stock/internal/domain"
)

// OrdersHandler traduce transiciones de pedidos (expedición de obrador, envío y
// devolución de cliente) en llamadas al adaptador de pedidos.
type OrdersHandler struct {
	adapter *orders.Adapter
}

// NewOrdersHandler construye el handler.
func NewOrdersHandler(adapter *orders.Adapter) *OrdersHandler {
	return &OrdersHandler{adapter: adapter}
}

// DispatchFactoryOrder godoc
// @Summary      Expedir pedido de obrador a tienda (idempotente por línea)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DispatchFactoryOrderRequest  true  "pedido, obrador, tienda y líneas expedidas"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/factory/dispatch [post]
func (h *OrdersHandler) DispatchFactoryOrder(c *fiber.Ctx) error {
	var in dto.DispatchFactoryOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.adapter.DispatchFactoryOrder(c.Context(), orders.DispatchInput{
		OrderID:    in.OrderID,
		FactoryID:  in.FactoryID,
		StoreID:    in.StoreID,
		Lines:      toOrderLines(in.Lines),
		DispatchBy: in.DispatchBy,
	})
	if err != nil {
		return ordersError(c, err)
	}
	return c.JSON(fiber.Map{"message": "expedición registrada"})
}

// ShipClientOrder registra las salidas del central por un pedido de cliente.
func (h *OrdersHandler) ShipClientOrder(c *fiber.Ctx) error {
	var in dto.ShipClientOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.adapter.ShipClientOrder(c.Context(), orders.ShipInput{
		OrderID:   in.OrderID,
		CentralID: in.CentralID,
		Lines:     toOrderLines(in.Lines),
		ShippedBy: in.ShippedBy,
	})
	if err != nil {
		return ordersError(c, err)
	}
	return c.JSON(fiber.Map{"message": "envío registrado"})
}

// ReturnClientOrder registra las entradas por devolución de un pedido de cliente.
func (h *OrdersHandler) ReturnClientOrder(c *fiber.Ctx) error {
	var in dto.ReturnClientOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.adapter.ReturnClientOrder(c.Context(), orders.ReturnInput{
		OrderID:    in.OrderID,
		CentralID:  in.CentralID,
		Lines:      toOrderLines(in.Lines),
		ReceivedBy: in.ReceivedBy,
	})
	if err != nil {
		return ordersError(c, err)
	}
	return c.JSON(fiber.Map{"message": "devolución registrada"})
}

func ordersError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrada"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toOrderLines(in []dto.OrderLineRequest) []orders.OrderLine {
	lines := make([]orders.OrderLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, orders.OrderLine{
			ProductID: l.ProductID,
			LotCode:   l.LotCode,
			Quantity:  l.Quantity,
			Weight:    l.Weight,
			IsComment: l.IsComment,
		})
	}
	return lines
}
