package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-dashboard/internal/application/dto"
	"github.com/jhoicas/stock-dashboard/internal/application/usecase"
)

// HistoryHandler consultas HTTP sobre el historial de movimientos.
type HistoryHandler struct {
	uc *usecase.HistoryUseCase
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *usecase.HistoryUseCase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Del más reciente al más antiguo. limit=0 devuelve todo.
// @Tags         history
// @Produce      json
// @Param        action  query  string  false  "all | add | remove"
// @Param        search  query  string  false  "Texto en el nombre guardado del producto"
// @Param        limit   query  int     false  "Límite (máx. 500)"
// @Param        offset  query  int     false  "Offset"
// @Success      200     {object}  dto.HistoryListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	q, err := historyQuery(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF del historial
// @Tags         history
// @Produce      application/pdf
// @Param        action  query  string  false  "all | add | remove"
// @Param        search  query  string  false  "Texto en el nombre guardado del producto"
// @Success      200
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/history/report.pdf [get]
func (h *HistoryHandler) Report(c *fiber.Ctx) error {
	q, err := historyQuery(c)
	if err != nil {
		return badBody(c)
	}
	pdf, err := h.uc.Report(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="historial.pdf"`)
	return c.Send(pdf)
}

func historyQuery(c *fiber.Ctx) (dto.HistoryQuery, error) {
	var q dto.HistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return q, err
	}
	q.Limit = c.QueryInt("limit", 0)
	q.Offset = c.QueryInt("offset", 0)
	return q, nil
}
