package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/carniceria-stock/internal/application/dto"
	"github.com/tu-usuario/carniceria-stock/internal/application/ledger"
	"github.com/tu-usuario/carniceria-stock/internal/domain"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos y lotes.
type MovementHandler struct {
	engine *ledger.Engine
}

// NewMovementHandler construye el handler.
func NewMovementHandler(engine *ledger.Engine) *MovementHandler {
	return &MovementHandler{engine: engine}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "location_id, product_id, kind, quantity (magnitud sin signo); lot_code y weight opcionales"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.engine.RecordMovement(c.Context(), ledger.MovementInput{
		LocationID:     in.LocationID,
		DestLocationID: in.DestLocationID,
		ProductID:      in.ProductID,
		Kind:           in.Kind,
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		LotCode:        in.LotCode,
		Weight:         in.Weight,
		Reason:         in.Reason,
		OrderID:        in.OrderID,
		TransferID:     in.TransferID,
		SupplierRef:    in.SupplierRef,
		UnitCost:       in.UnitCost,
		SourceDoc:      in.SourceDoc,
		CreatedBy:      in.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RecordMovementResponse{
		Movement: toMovementResponse(result.Movement),
		Warnings: result.Warnings,
	})
}

// ListMovements godoc
// @Summary      Listar movimientos de stock
// @Tags         inventory
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        lot_code     query  string  false  "Filtrar por lote"
// @Param        from         query  string  false  "Desde (RFC3339)"
// @Param        to           query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *MovementHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		LocationID: c.Query("location_id"),
		ProductID:  c.Query("product_id"),
		LotCode:    c.Query("lot_code"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido"})
		}
		filter.To = &t
	}

	movements, err := h.engine.ListMovements(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{
		"movements": items,
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// ListAvailableLots godoc
// @Summary      Lotes disponibles de un producto (el más antiguo primero)
// @Tags         inventory
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}   dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/lots [get]
func (h *MovementHandler) ListAvailableLots(c *fiber.Ctx) error {
	lots, err := h.engine.ListAvailableLots(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toLotResponses(lots))
}

// ListLotHistory devuelve todos los lotes del producto, agotados incluidos
// (trazabilidad de partidas).
func (h *MovementHandler) ListLotHistory(c *fiber.Ctx) error {
	lots, err := h.engine.ListLotHistory(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toLotResponses(lots))
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		LocationID:     m.LocationID,
		DestLocationID: m.DestLocationID,
		LotCode:        m.LotCode,
		Kind:           m.Kind,
		Quantity:       m.Quantity,
		Unit:           m.Unit,
		Weight:         m.Weight,
		Reason:         m.Reason,
		OrderID:        m.OrderID,
		TransferID:     m.TransferID,
		SupplierRef:    m.SupplierRef,
		UnitCost:       m.UnitCost,
		SourceDoc:      m.SourceDoc,
		Date:           m.Date,
		CreatedBy:      m.CreatedBy,
	}
}

func toLotResponses(lots []*entity.Lot) []dto.LotResponse {
	items := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		items = append(items, dto.LotResponse{
			ID:              l.ID,
			ProductID:       l.ProductID,
			Code:            l.Code,
			InitialQty:      l.InitialQty,
			InitialWeight:   l.InitialWeight,
			AvailableQty:    l.AvailableQty,
			AvailableWeight: l.AvailableWeight,
			EntryDate:       l.EntryDate,
			SupplierRef:     l.SupplierRef,
			UnitCost:        l.UnitCost,
			SourceDoc:       l.SourceDoc,
			Notes:           l.Notes,
		})
	}
	return items
}
