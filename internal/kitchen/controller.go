package kitchen

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"restopos/internal/dto"
)

type BoardReader interface {
	Board() Board
}

// Controller serves the last good board so a wall screen can follow the
// kitchen without its own session.
type Controller struct {
	display BoardReader
	logger  *zap.Logger
}

func NewController(display BoardReader, logger *zap.Logger) *Controller {
	return &Controller{display: display, logger: logger}
}

func (c *Controller) GetBoard(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	board := c.display.Board()

	status := r.URL.Query().Get("status")
	resp := dto.BoardResponse{
		TraceID:   traceID,
		FetchedAt: board.FetchedAt,
		Stale:     board.Stale,
		LastError: board.LastError,
		Columns:   make([]dto.BoardColumnDTO, 0, len(board.Columns)),
	}
	for _, col := range board.Columns {
		if status != "" && string(col.Status) != status {
			continue
		}
		resp.Columns = append(resp.Columns, columnDTO(col))
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func columnDTO(col Column) dto.BoardColumnDTO {
	out := dto.BoardColumnDTO{Status: string(col.Status), Tickets: make([]dto.BoardTicketDTO, 0, len(col.Tickets))}
	for _, t := range col.Tickets {
		actions := make([]string, 0, len(t.Actions))
		for _, a := range t.Actions {
			actions = append(actions, string(a))
		}
		items := make([]dto.BoardTicketItemDTO, 0, len(t.Order.Items))
		for _, it := range t.Order.Items {
			items = append(items, dto.BoardTicketItemDTO{Name: it.Name, Quantity: it.Quantity, Notes: it.Notes})
		}
		out.Tickets = append(out.Tickets, dto.BoardTicketDTO{
			OrderID:        t.Order.ID,
			OrderNumber:    t.Order.OrderNumber,
			OrderType:      string(t.Order.OrderType),
			TableID:        t.Order.TableID,
			CustomerName:   t.Order.CustomerName,
			WaitingSeconds: int64(t.Waiting.Seconds()),
			Actions:        actions,
			Items:          items,
		})
	}
	return out
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
