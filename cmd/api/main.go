package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/stock-dashboard/docs"
	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/internal/application/inventory"
	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/application/usecase"
	"github.com/jhoicas/stock-dashboard/internal/domain/repository"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/cloudinary"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/kafka"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/memory"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stock-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/stock-dashboard/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/stock-dashboard/internal/interfaces/http"
	"github.com/jhoicas/stock-dashboard/pkg/config"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

// stores repositorios y runner de transacciones del driver elegido.
type stores struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	movements  repository.StockMovementRepository
	txRunner   repository.TxRunner
	close      func()
}

// @title                      Stock Dashboard API
// @version                    1.0
// @description                Tablero de inventario: productos, categorías, ajustes de stock con historial y suscripciones en vivo.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	st := openStores(ctx, cfg, log)
	defer st.close()

	// Broker de cambios: Redis Pub/Sub para varias instancias, memoria para una sola.
	var broker feed.Broker
	if cfg.Redis.URL != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		broker = infraredis.NewBroker(rdb, cfg.Redis.Prefix, log)
		log.Info().Str("prefix", cfg.Redis.Prefix).Msg("broker de cambios en Redis")
	} else {
		mem := feed.NewMemoryBroker()
		defer mem.Close()
		broker = mem
	}

	m := metrics.New("stock_dashboard", nil)
	adjustOpts := []inventory.Option{inventory.WithRecorder(m)}
	if cfg.Kafka.Enabled() {
		pub, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Kafka")
		}
		defer pub.Close()
		adjustOpts = append(adjustOpts, inventory.WithPublisher(pub))
	}

	var uploader ports.ImageUploader
	if cfg.Cloudinary.Enabled() {
		up, err := cloudinary.NewUploader(
			cfg.Cloudinary.BaseURL,
			cfg.Cloudinary.CloudName,
			cfg.Cloudinary.UploadPreset,
			time.Duration(cfg.Cloudinary.Timeout)*time.Second,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente Cloudinary")
		}
		uploader = up
	} else {
		log.Warn().Msg("CLOUDINARY_CLOUD_NAME/CLOUDINARY_UPLOAD_PRESET no configurados: /api/uploads deshabilitado")
	}
	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: rutas de escritura sin autenticación")
	}

	settings := usecase.CatalogSettings{
		Locale:             cfg.App.Locale,
		LowStockThreshold:  cfg.App.LowStockThreshold,
		UncategorizedLabel: cfg.App.UncategorizedLabel,
	}
	productUC := usecase.NewProductUseCase(st.products, st.categories, st.txRunner, broker, settings, log)
	categoryUC := usecase.NewCategoryUseCase(st.categories, broker, settings, log)
	historyUC := usecase.NewHistoryUseCase(st.movements, infrapdf.NewMarotoHistoryReport(cfg.App.Name))
	adjustUC := inventory.NewAdjustStockUseCase(st.txRunner, broker, log, adjustOpts...)
	reconcileUC := inventory.NewReconcileUseCase(st.products, st.movements, log)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// sin WriteTimeout: los streams SSE quedan abiertos
		IdleTimeout: time.Second * 60,
		BodyLimit:   cfg.Cloudinary.MaxBytes + 1024*1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Dashboard API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		CategoryUC:     categoryUC,
		HistoryUC:      historyUC,
		AdjustStock:    adjustUC,
		Reconcile:      reconcileUC,
		Broker:         broker,
		Uploader:       uploader,
		Metrics:        m,
		Log:            log,
		ServiceName:    cfg.App.Name,
		JWTSecret:      cfg.JWT.Secret,
		Heartbeat:      time.Duration(cfg.HTTP.Heartbeat) * time.Second,
		UploadMaxBytes: int64(cfg.Cloudinary.MaxBytes),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.New()
		return stores{
			products:   s.Products(),
			categories: s.Categories(),
			movements:  s.Movements(),
			txRunner:   s,
			close:      func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.Migrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return stores{
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		txRunner:   postgres.NewTxRunner(pool),
		close:      pool.Close,
	}
}
