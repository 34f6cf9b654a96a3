package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-dashboard/internal/application/dto"
	"github.com/jhoicas/stock-dashboard/internal/application/inventory"
	"github.com/jhoicas/stock-dashboard/internal/application/usecase"
	ledger "github.com/jhoicas/stock-dashboard/internal/domain/inventory"
)

// InventoryHandler maneja ajustes de stock, historial por producto y conciliación.
type InventoryHandler struct {
	adjust    *inventory.AdjustStockUseCase
	reconcile *inventory.ReconcileUseCase
	products  *usecase.ProductUseCase
	history   *usecase.HistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjust *inventory.AdjustStockUseCase,
	reconcile *inventory.ReconcileUseCase,
	products *usecase.ProductUseCase,
	history *usecase.HistoryUseCase,
) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, reconcile: reconcile, products: products, history: history}
}

// Increase godoc
// @Summary      Entrada de stock
// @Description  Suma amount a la cantidad y registra un movimiento add. Sin amount se suma 1.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  false  "amount > 0"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/increase [post]
func (h *InventoryHandler) Increase(c *fiber.Ctx) error {
	return h.adjustStock(c, string(ledger.Increase))
}

// Decrease godoc
// @Summary      Salida de stock
// @Description  Resta amount de la cantidad y registra un movimiento remove. Sin amount se resta 1.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  false  "0 < amount <= quantity"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/products/{id}/decrease [post]
func (h *InventoryHandler) Decrease(c *fiber.Ctx) error {
	return h.adjustStock(c, string(ledger.Decrease))
}

func (h *InventoryHandler) adjustStock(c *fiber.Ctx, direction string) error {
	var in dto.AdjustStockRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	ctx := c.UserContext()
	res, err := h.adjust.AdjustFromRequest(ctx, c.Params("id"), direction, in)
	if err != nil {
		return writeError(c, err)
	}
	product, err := h.products.Present(ctx, res.Product)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AdjustStockResponse{
		Product:  *product,
		Movement: usecase.ToMovementResponse(res.Movement),
	})
}

// Movements godoc
// @Summary      Historial de un producto
// @Description  Movimientos en orden cronológico; también responde para productos eliminados.
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	out, err := h.history.ListByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconciliation godoc
// @Summary      Conciliar cantidad con el historial
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reconciliation [get]
func (h *InventoryHandler) Reconciliation(c *fiber.Ctx) error {
	product, r, err := h.reconcile.Reconcile(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		ProductID:  r.ProductID,
		Baseline:   r.Baseline,
		BaselineAt: product.BaselineAt,
		Movements:  r.Movements,
		Expected:   r.Expected,
		Actual:     r.Actual,
		Consistent: r.Consistent,
	})
}
