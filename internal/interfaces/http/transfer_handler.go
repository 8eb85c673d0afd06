package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/carniceria-stock/internal/application/dto"
	"github.com/tu-usuario/carniceria-stock/internal/application/transfer"
	"github.com/tu-usuario/carniceria-stock/internal/domain"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de traslados entre ubicaciones.
type TransferHandler struct {
	coordinator *transfer.Coordinator
}

// NewTransferHandler construye el handler.
func NewTransferHandler(coordinator *transfer.Coordinator) *TransferHandler {
	return &TransferHandler{coordinator: coordinator}
}

// Create godoc
// @Summary      Crear traslado (pending; con ?register=true compromete el stock en el acto)
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        register  query  bool  false  "Registrar y confirmar en una sola operación"
// @Param        body  body  dto.CreateTransferRequest  true  "origen, destino y líneas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := transfer.CreateInput{
		OriginID:      in.OriginID,
		DestinationID: in.DestinationID,
		Notes:         in.Notes,
		RequestedBy:   in.RequestedBy,
	}
	for _, line := range in.Lines {
		input.Lines = append(input.Lines, transfer.LineInput{
			ProductID: line.ProductID,
			LotCode:   line.LotCode,
			Quantity:  line.Quantity,
			Weight:    line.Weight,
			Comment:   line.Comment,
		})
	}

	var (
		tr  *entity.Transfer
		err error
	)
	if c.QueryBool("register") {
		tr, err = h.coordinator.Register(c.Context(), input)
	} else {
		tr, err = h.coordinator.Create(c.Context(), input)
	}
	if err != nil {
		return transferError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(tr))
}

// Send transiciona pending → sent (salidas registradas en origen).
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	tr, err := h.coordinator.Send(c.Context(), c.Params("id"))
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(toTransferResponse(tr))
}

// Confirm godoc
// @Summary      Confirmar recepción del traslado (idempotente)
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	tr, err := h.coordinator.Confirm(c.Context(), c.Params("id"))
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(toTransferResponse(tr))
}

// Cancel transiciona pending → cancelled (terminal, sin movimientos).
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	tr, err := h.coordinator.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(toTransferResponse(tr))
}

// Get devuelve el traslado con sus líneas.
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	tr, err := h.coordinator.Get(c.Context(), c.Params("id"))
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(toTransferResponse(tr))
}

func transferError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "traslado, producto o ubicación no encontrada"})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "transición de estado no permitida"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	resp := dto.TransferResponse{
		ID:            t.ID,
		OriginID:      t.OriginID,
		DestinationID: t.DestinationID,
		Notes:         t.Notes,
		RequestedBy:   t.RequestedBy,
		Status:        t.Status,
		SentAt:        t.SentAt,
		ReceivedAt:    t.ReceivedAt,
		CreatedAt:     t.CreatedAt,
	}
	for _, line := range t.Lines {
		resp.Lines = append(resp.Lines, dto.TransferLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			LotCode:   line.LotCode,
			Quantity:  line.Quantity,
			Weight:    line.Weight,
			Comment:   line.Comment,
		})
	}
	return resp
}
