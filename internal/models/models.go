package models

import "time"

// Product represents a catalog item. Names are stored lower-cased and must
// be unique among non-deleted rows; soft-deleted rows are kept so historical
// sales stay resolvable.
type Product struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	MaterialType string    `db:"material_type" json:"material_type"`
	Category     string    `db:"category" json:"category"`
	Price        float64   `db:"price" json:"price"`
	Stock        int       `db:"stock" json:"stock"`
	IsDeleted    bool      `db:"is_deleted" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ProductForSale is the row-locked projection the checkout engine works on.
type ProductForSale struct {
	ID    int64   `db:"id"`
	Name  string  `db:"name"`
	Price float64 `db:"price"`
	Stock int     `db:"stock"`
}

// StockLevel is the id/stock pair served to the POS page.
type StockLevel struct {
	ProductID int64 `db:"id" json:"id"`
	Stock     int   `db:"stock" json:"stock"`
}

// Sale is one ledger row. ProductID is nil for custom cart lines.
// ProductName and Total are snapshots taken at sale time; they survive
// later catalog edits and soft deletes. A sale is immutable except for
// the void fields, and voided is terminal.
type Sale struct {
	ID          int64      `db:"id" json:"id"`
	ProductID   *int64     `db:"product_id" json:"product_id,omitempty"`
	ProductName string     `db:"product_name" json:"product_name"`
	Qty         int        `db:"qty" json:"qty"`
	Total       float64    `db:"total" json:"total"`
	Actor       string     `db:"actor" json:"actor"`
	OccurredAt  time.Time  `db:"occurred_at" json:"occurred_at"`
	Voided      bool       `db:"voided" json:"voided"`
	VoidReason  *string    `db:"void_reason" json:"void_reason,omitempty"`
	VoidedAt    *time.Time `db:"voided_at" json:"voided_at,omitempty"`
}

// SaleForVoid is the locked projection the void engine works on. Name and
// total ride along for the voided event payload.
type SaleForVoid struct {
	ID          int64   `db:"id"`
	ProductID   *int64  `db:"product_id"`
	ProductName string  `db:"product_name"`
	Qty         int     `db:"qty"`
	Total       float64 `db:"total"`
	Voided      bool    `db:"voided"`
}

// AuditLog is one append-only administrative action record.
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	Subject   string    `db:"subject" json:"subject"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HistoryEntry is one row of the unified history feed: audit actions and
// sales interleaved, newest first.
type HistoryEntry struct {
	ID      int64     `db:"id" json:"id"`
	Time    time.Time `db:"time" json:"time"`
	Type    string    `db:"type" json:"type"`
	Title   string    `db:"title" json:"title"`
	Subject string    `db:"subject" json:"subject"`
	Details string    `db:"details" json:"details"`
	Status  string    `db:"status" json:"status"`
	Amount  *float64  `db:"amount" json:"amount,omitempty"`
	Qty     *int      `db:"qty" json:"qty,omitempty"`
	Actor   string    `db:"actor" json:"actor"`
}

// History entry types
const (
	HistoryTypeInventory = "INVENTORY"
	HistoryTypeSale      = "SALE"
)

// Sale statuses shown in history
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusVoided    = "VOIDED"
)

// Dashboard aggregates computed over non-voided sales only.
type Dashboard struct {
	Revenue     float64        `json:"revenue"`
	TotalSales  int            `json:"total_sales"`
	SalesByDay  []DayRevenue   `json:"sales_by_day"`
	TopProducts []TopProduct   `json:"top_products"`
	LowStock    []LowStockItem `json:"low_stock"`
}

type DayRevenue struct {
	Day     string  `db:"day" json:"day"`
	Revenue float64 `db:"revenue" json:"revenue"`
}

type TopProduct struct {
	ProductName string `db:"product_name" json:"product_name"`
	QtySold     int    `db:"qty_sold" json:"qty_sold"`
}

type LowStockItem struct {
	ProductName string `db:"name" json:"product_name"`
	Stock       int    `db:"stock" json:"stock"`
}
