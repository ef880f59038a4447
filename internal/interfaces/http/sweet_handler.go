package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/sweetshop-api/internal/application/catalog"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// HeaderActorID identifica al comprador/operador. La gestión de identidad
// queda fuera de este servicio; el caller externo es responsable del valor.
const HeaderActorID = "X-Actor-ID"

// SweetHandler maneja las peticiones HTTP del catálogo y del stock.
type SweetHandler struct {
	stockUC   *inventory.StockUseCase
	catalogUC *catalog.CatalogUseCase
}

// NewSweetHandler construye el handler.
func NewSweetHandler(stockUC *inventory.StockUseCase, catalogUC *catalog.CatalogUseCase) *SweetHandler {
	return &SweetHandler{stockUC: stockUC, catalogUC: catalogUC}
}

// Create godoc
// @Summary      Crear un dulce
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSweetRequest  true  "name, category, price, quantity y opcionales"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sweet, event, err := h.stockUC.Create(c.Context(), inventory.CreateSweetInput{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{
		Sweet: dto.FromSweet(sweet),
		Event: dto.FromStockEvent(event),
	})
}

// List godoc
// @Summary      Listar todos los dulces
// @Tags         sweets
// @Produce      json
// @Success      200  {array}  dto.SweetResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c *fiber.Ctx) error {
	sweets, err := h.catalogUC.List(c.Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromSweets(sweets))
}

// Search godoc
// @Summary      Buscar dulces por nombre, categoría o rango de precio
// @Tags         sweets
// @Produce      json
// @Param        name       query  string  false  "subcadena del nombre"
// @Param        category   query  string  false  "categoría exacta"
// @Param        min_price  query  number  false  "precio mínimo"
// @Param        max_price  query  number  false  "precio máximo"
// @Success      200  {array}   dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c *fiber.Ctx) error {
	filter := repository.SweetFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
	}
	if raw := c.Query("min_price"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "min_price inválido"})
		}
		filter.MinPrice = &d
	}
	if raw := c.Query("max_price"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "max_price inválido"})
		}
		filter.MaxPrice = &d
	}
	sweets, err := h.catalogUC.Search(c.Context(), filter)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromSweets(sweets))
}

// GetByID godoc
// @Summary      Obtener un dulce por ID
// @Tags         sweets
// @Produce      json
// @Param        id  path  string  true  "ID del dulce"
// @Success      200  {object}  dto.SweetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) GetByID(c *fiber.Ctx) error {
	sweet, err := h.catalogUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromSweet(sweet))
}

// Update godoc
// @Summary      Actualizar campos de catálogo de un dulce
// @Description  Actualización parcial tipada; quantity no se acepta por aquí.
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del dulce"
// @Param        body  body  dto.UpdateSweetRequest  true  "campos presentes = campos actualizados"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sweet, err := h.catalogUC.Update(c.Context(), c.Params("id"), repository.SweetPatch{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromSweet(sweet))
}

// Delete godoc
// @Summary      Eliminar un dulce (administrativo)
// @Description  Elimina el dulce y, en cascada, su historial de eventos.
// @Tags         sweets
// @Produce      json
// @Param        id  path  string  true  "ID del dulce"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalogUC.Delete(c.Context(), c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "dulce eliminado"})
}

// Purchase godoc
// @Summary      Comprar unidades de un dulce
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  string               false  "ID del comprador"
// @Param        id          path    string               true   "ID del dulce"
// @Param        body        body    dto.PurchaseRequest  true   "quantity > 0"
// @Success      200  {object}  dto.MutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sweet, event, err := h.stockUC.Purchase(c.Context(), c.Params("id"), in.Quantity, c.Get(HeaderActorID))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.MutationResponse{Sweet: dto.FromSweet(sweet), Event: dto.FromStockEvent(event)})
}

// Restock godoc
// @Summary      Reponer unidades de un dulce
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  string              false  "ID del operador"
// @Param        id          path    string              true   "ID del dulce"
// @Param        body        body    dto.RestockRequest  true   "quantity > 0"
// @Success      200  {object}  dto.MutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sweet, event, err := h.stockUC.Restock(c.Context(), c.Params("id"), in.Quantity, c.Get(HeaderActorID))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.MutationResponse{Sweet: dto.FromSweet(sweet), Event: dto.FromStockEvent(event)})
}

// Adjust godoc
// @Summary      Corrección manual de stock (merma, conteo físico)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID  header  string             false  "ID del operador"
// @Param        id          path    string             true   "ID del dulce"
// @Param        body        body    dto.AdjustRequest  true   "delta con signo, distinto de cero"
// @Success      200  {object}  dto.MutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/adjust [post]
func (h *SweetHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sweet, event, err := h.stockUC.Adjust(c.Context(), c.Params("id"), in.Delta, c.Get(HeaderActorID))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.MutationResponse{Sweet: dto.FromSweet(sweet), Event: dto.FromStockEvent(event)})
}

// AuditTrail godoc
// @Summary      Historial de eventos de stock de un dulce
// @Description  Del más antiguo al más reciente; lectura sin bloqueos.
// @Tags         inventory
// @Produce      json
// @Param        id  path  string  true  "ID del dulce"
// @Success      200  {array}   dto.StockEventResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/events [get]
func (h *SweetHandler) AuditTrail(c *fiber.Ctx) error {
	id := c.Params("id")
	// 404 si el dulce no existe; un dulce existente sin eventos no ocurre
	// (Create siempre deja su evento), pero devolvería lista vacía.
	if _, err := h.catalogUC.GetByID(c.Context(), id); err != nil {
		return mapError(c, err)
	}
	events, err := h.stockUC.AuditTrail(id).Collect()
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.StockEventResponse, len(events))
	for i, ev := range events {
		out[i] = dto.FromStockEvent(ev)
	}
	return c.JSON(out)
}

// mapError traduce errores de dominio a códigos HTTP.
func mapError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":      "INSUFFICIENT_STOCK",
			"message":   "stock insuficiente",
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validation.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "dulce no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrBusy):
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BUSY", Message: "recurso ocupado, reintentar"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
