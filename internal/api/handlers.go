package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/roach88/ticketboard/internal/board"
	"github.com/roach88/ticketboard/internal/model"
	"github.com/roach88/ticketboard/internal/store"
)

type handlers struct {
	board  *board.Controller
	logger *slog.Logger
}

type addTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type reorderRequest struct {
	IDs []int64 `json:"ids"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (h *handlers) healthz(c echo.Context) error {
	if _, err := h.board.Store().Lists(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusOK)
}

func (h *handlers) getBoard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.board.Snapshot())
}

func (h *handlers) addTicket(c echo.Context) error {
	var req addTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if model.NormalizeTitle(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "title must not be empty"})
	}

	t, err := h.board.CreateTicket(c.Request().Context(), c.Param("listID"), req.Title, req.Description)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *handlers) updateTicket(c echo.Context) error {
	id, ok := ticketID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid ticket id"})
	}
	var patch model.TicketPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	t, err := h.board.EditTicket(c.Request().Context(), id, patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *handlers) deleteTicket(c echo.Context) error {
	id, ok := ticketID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid ticket id"})
	}
	if err := h.board.DeleteTicket(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) moveTicket(c echo.Context) error {
	var ev model.DropEvent
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := h.board.MoveTicket(c.Request().Context(), ev); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.board.Snapshot())
}

func (h *handlers) reorderList(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := h.board.ReorderList(c.Request().Context(), c.Param("listID"), req.IDs); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.board.Snapshot())
}

// fail maps controller errors to status codes.
func (h *handlers) fail(c echo.Context, err error) error {
	var be *board.Error
	switch {
	case errors.As(err, &be) && be.Code == board.ErrCodeUnknownList:
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: string(be.Code), Suggestion: be.Suggestion})
	case errors.As(err, &be) && be.Code == board.ErrCodeOrderMismatch:
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Code: string(be.Code)})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "ticket not found"})
	}

	h.logger.Error("operation failed",
		"op_id", c.Response().Header().Get(HeaderOperationID),
		"path", c.Path(),
		"error", err)
	resp := errorResponse{Error: err.Error()}
	if be != nil {
		resp.Code = string(be.Code)
	}
	return c.JSON(http.StatusInternalServerError, resp)
}

func ticketID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
