// Package api exposes the board over HTTP with echo.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/roach88/ticketboard/internal/board"
)

// HeaderOperationID carries the id a mutation was logged under.
const HeaderOperationID = "X-Operation-ID"

// NewServer builds an echo instance with every route registered.
func NewServer(ctrl *board.Controller, logger *slog.Logger) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	Register(e, ctrl, logger)
	return e
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, ctrl *board.Controller, logger *slog.Logger) {
	h := &handlers{board: ctrl, logger: logger}

	e.GET("/healthz", h.healthz)

	g := e.Group("/api", operationID(board.UUIDv7Generator{}))
	g.GET("/board", h.getBoard)
	g.POST("/lists/:listID/tickets", h.addTicket)
	g.PUT("/lists/:listID/order", h.reorderList)
	g.PATCH("/tickets/:id", h.updateTicket)
	g.DELETE("/tickets/:id", h.deleteTicket)
	g.POST("/moves", h.moveTicket)
}

// Serve runs e on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
