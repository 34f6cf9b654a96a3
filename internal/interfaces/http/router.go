package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/internal/application/inventory"
	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/application/usecase"
	"github.com/jhoicas/stock-dashboard/pkg/jwt"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

// Metrics lo que el router necesita de metrics.Metrics.
type Metrics interface {
	RequestObserver
	StreamObserver
	Handler() nethttp.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	CategoryUC     *usecase.CategoryUseCase
	HistoryUC      *usecase.HistoryUseCase
	AdjustStock    *inventory.AdjustStockUseCase
	Reconcile      *inventory.ReconcileUseCase
	Broker         feed.Broker
	Uploader       ports.ImageUploader // nil: uploads deshabilitados
	Metrics        Metrics             // nil: sin /metrics
	Log            *logger.Logger
	ServiceName    string
	JWTSecret      string // vacío: rutas de escritura abiertas
	Heartbeat      time.Duration
	UploadMaxBytes int64
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	var observer RequestObserver
	var streams StreamObserver
	if deps.Metrics != nil {
		observer, streams = deps.Metrics, deps.Metrics
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Use(RequestLogger(log, observer))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")
	write := writeGuards(deps.JWTSecret)
	admin := writeGuards(deps.JWTSecret, jwt.RoleAdmin)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.AdjustStock, deps.Reconcile, deps.ProductUC, deps.HistoryUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/stats", productHandler.Stats)
	products.Post("/", with(write, productHandler.Create)...)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", with(write, productHandler.Update)...)
	products.Delete("/:id", with(admin, productHandler.Delete)...)
	products.Post("/:id/increase", with(write, inventoryHandler.Increase)...)
	products.Post("/:id/decrease", with(write, inventoryHandler.Decrease)...)
	products.Get("/:id/movements", inventoryHandler.Movements)
	products.Get("/:id/reconciliation", inventoryHandler.Reconciliation)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", with(write, categoryHandler.Create)...)
	categories.Put("/:id", with(write, categoryHandler.Update)...)
	categories.Delete("/:id", with(admin, categoryHandler.Delete)...)

	// History
	historyHandler := NewHistoryHandler(deps.HistoryUC)
	api.Get("/history", historyHandler.List)
	api.Get("/history/report.pdf", historyHandler.Report)

	// Uploads
	uploadHandler := NewUploadHandler(deps.Uploader, deps.UploadMaxBytes)
	api.Post("/uploads", with(write, uploadHandler.Upload)...)

	// Stream (SSE)
	streamHandler := NewStreamHandler(deps.Broker, deps.ProductUC, deps.CategoryUC, deps.HistoryUC, deps.Heartbeat, streams, log)
	api.Get("/stream/:topic", streamHandler.Stream)
}

func with(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}
