package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/roach88/ticketboard/internal/board"
)

const shutdownTimeout = 5 * time.Second

// operationID tags every mutating request with an id: the client's
// X-Operation-ID when present, else a fresh one. The id is echoed in the
// response header and travels to the controller via the request
// context, so API responses and controller logs line up.
func operationID(gen board.OpIDGenerator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet {
				return next(c)
			}
			id := c.Request().Header.Get(HeaderOperationID)
			if id == "" {
				id = gen.Generate()
			}
			c.Response().Header().Set(HeaderOperationID, id)
			req := c.Request()
			c.SetRequest(req.WithContext(board.ContextWithOpID(req.Context(), id)))
			return next(c)
		}
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if id := c.Response().Header().Get(HeaderOperationID); id != "" {
				attrs = append(attrs, "op_id", id)
			}
			if v.Error != nil {
				logger.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Debug("request", attrs...)
			return nil
		},
	})
}
