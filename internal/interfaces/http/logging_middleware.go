package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

// RequestObserver recibe la duración de cada request (lo implementa metrics.Metrics).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra cada request con zerolog y, si observer no es nil, lo mide.
// route es el patrón registrado (/api/products/:id), no la URL concreta.
func RequestLogger(log *logger.Logger, observer RequestObserver) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// dejar que el ErrorHandler fije el status antes de leerlo
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		// copias: fasthttp reutiliza los buffers y prometheus guarda las etiquetas
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)
		if observer != nil {
			observer.ObserveRequest(method, route, status, elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", method).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
		return nil
	}
}
