package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/stock-dashboard/internal/application/dto"
	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/internal/application/usecase"
	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/listing"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

// DefaultHeartbeat intervalo de comentarios keep-alive en el stream.
const DefaultHeartbeat = 25 * time.Second

// StreamObserver cuenta suscriptores activos por tópico (lo implementa metrics.Metrics).
type StreamObserver interface {
	StreamOpened(topic string)
	StreamClosed(topic string)
}

type snapshotFunc func(ctx context.Context) (any, error)

// StreamHandler expone los tópicos del feed como Server-Sent Events: una instantánea completa
// al conectar y otra después de cada señal de cambio.
type StreamHandler struct {
	broker     feed.Broker
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	history    *usecase.HistoryUseCase
	heartbeat  time.Duration
	observer   StreamObserver
	log        *logger.Logger
}

// NewStreamHandler construye el handler. observer puede ser nil.
func NewStreamHandler(
	broker feed.Broker,
	products *usecase.ProductUseCase,
	categories *usecase.CategoryUseCase,
	history *usecase.HistoryUseCase,
	heartbeat time.Duration,
	observer StreamObserver,
	log *logger.Logger,
) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &StreamHandler{
		broker:     broker,
		products:   products,
		categories: categories,
		history:    history,
		heartbeat:  heartbeat,
		observer:   observer,
		log:        log.Component("stream"),
	}
}

// Stream godoc
// @Summary      Suscripción en vivo
// @Description  text/event-stream con eventos "snapshot" (colección completa). Los filtros de
// @Description  /products y /history aplican a cada instantánea.
// @Tags         stream
// @Produce      text/event-stream
// @Param        topic  path  string  true  "products | categories | history"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stream/{topic} [get]
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	topic := utils.CopyString(c.Params("topic"))
	if !feed.ValidTopic(topic) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tópico desconocido"})
	}
	snapshot, err := h.snapshotFor(c, topic)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return writeError(c, err)
		}
		return badBody(c)
	}

	// el contexto de fasthttp se recicla al volver del handler
	ctx, cancelCtx := context.WithCancel(context.Background())
	signals, unsubscribe, err := h.broker.Subscribe(ctx, topic)
	if err != nil {
		cancelCtx()
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	if h.observer != nil {
		h.observer.StreamOpened(topic)
	}
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			unsubscribe()
			cancelCtx()
			if h.observer != nil {
				h.observer.StreamClosed(topic)
			}
		}()
		err := streamSnapshots(ctx, w, signals, h.heartbeat, snapshot)
		if err != nil && !errors.Is(err, context.Canceled) {
			h.log.Debug().Err(err).Str("topic", topic).Msg("stream cerrado")
		}
	}))
	return nil
}

// snapshotFor lee los filtros de la query antes de que fasthttp recicle el request.
func (h *StreamHandler) snapshotFor(c *fiber.Ctx, topic string) (snapshotFunc, error) {
	switch topic {
	case feed.TopicProducts:
		var q dto.ProductListQuery
		if err := c.QueryParser(&q); err != nil {
			return nil, err
		}
		q = dto.ProductListQuery{
			Search:     utils.CopyString(q.Search),
			CategoryID: utils.CopyString(q.CategoryID),
			Sort:       utils.CopyString(q.Sort),
			Order:      utils.CopyString(q.Order),
		}
		if _, err := listing.ParseSort(q.Sort, q.Order); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) { return h.products.List(ctx, q) }, nil
	case feed.TopicCategories:
		return func(ctx context.Context) (any, error) { return h.categories.List(ctx) }, nil
	default:
		q, err := historyQuery(c)
		if err != nil {
			return nil, err
		}
		q.Action = utils.CopyString(q.Action)
		q.Search = utils.CopyString(q.Search)
		if _, err := listing.ParseActionFilter(q.Action); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) { return h.history.List(ctx, q) }, nil
	}
}

// streamSnapshots escribe la instantánea inicial y una nueva por cada señal, con comentarios
// keep-alive cada heartbeat. Termina al cancelar ctx, al cerrarse signals o si falla la escritura
// (cliente desconectado).
func streamSnapshots(ctx context.Context, w *bufio.Writer, signals <-chan struct{}, heartbeat time.Duration, snapshot snapshotFunc) error {
	if err := writeSnapshot(ctx, w, snapshot); err != nil {
		return err
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-signals:
			if !ok {
				return nil
			}
			if err := writeSnapshot(ctx, w, snapshot); err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}

func writeSnapshot(ctx context.Context, w *bufio.Writer, snapshot snapshotFunc) error {
	event := "snapshot"
	v, err := snapshot(ctx)
	if err != nil {
		event = "error"
		v = dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("stream: serializar instantánea: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, body); err != nil {
		return err
	}
	return w.Flush()
}
