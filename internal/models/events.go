package models

import "time"

// Event types
const (
	EventTypeSaleCompleted = "SALE_COMPLETED"
	EventTypeSaleVoided    = "SALE_VOIDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleLineData is one committed cart line as carried in events.
type SaleLineData struct {
	SaleID      int64   `json:"sale_id"`
	ProductID   *int64  `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	Qty         int     `json:"qty"`
	Total       float64 `json:"total"`
}

// SaleCompletedEvent is published after a checkout commits.
type SaleCompletedEvent struct {
	BaseEvent
	Actor string         `json:"actor"`
	Total float64        `json:"total"`
	Lines []SaleLineData `json:"lines"`
}

// SaleVoidedEvent is published after a void commits.
type SaleVoidedEvent struct {
	BaseEvent
	SaleID      int64   `json:"sale_id"`
	ProductID   *int64  `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	Qty         int     `json:"qty"`
	Total       float64 `json:"total"`
	Actor       string  `json:"actor"`
	Reason      string  `json:"reason"`
}
