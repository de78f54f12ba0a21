package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string
	TenantID  string
	Name      string
	SKU       string
	Category  string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	Unit      string
	Stock     int
	History   []InventoryHistoryEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InventoryHistoryEntry is an append-only record of a stock change.
type InventoryHistoryEntry struct {
	ID        string
	ProductID string
	Change    int
	Reason    string
	CreatedAt time.Time
}

type Customer struct {
	ID        string
	TenantID  string
	Name      string
	Phone     string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PricingTemplate prices delivery by weight: FirstKgPrice covers the first
// kilogram, ExtraKgPrice each additional one.
type PricingTemplate struct {
	ID           string
	TenantID     string
	Name         string
	FirstKgPrice decimal.Decimal
	ExtraKgPrice decimal.Decimal
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
