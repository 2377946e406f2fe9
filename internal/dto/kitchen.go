package dto

import "time"

type BoardResponse struct {
	TraceID   string           `json:"traceId"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Stale     bool             `json:"stale"`
	LastError string           `json:"lastError,omitempty"`
	Columns   []BoardColumnDTO `json:"columns"`
}

type BoardColumnDTO struct {
	Status  string           `json:"status"`
	Tickets []BoardTicketDTO `json:"tickets"`
}

type BoardTicketDTO struct {
	OrderID        int64                `json:"orderId"`
	OrderNumber    string               `json:"orderNumber"`
	OrderType      string               `json:"orderType"`
	TableID        *int64               `json:"tableId,omitempty"`
	CustomerName   string               `json:"customerName,omitempty"`
	WaitingSeconds int64                `json:"waitingSeconds"`
	Actions        []string             `json:"actions"`
	Items          []BoardTicketItemDTO `json:"items"`
}

type BoardTicketItemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}
