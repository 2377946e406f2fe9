package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuItem struct {
	ID          int64
	CategoryID  int64
	Category    string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

type Table struct {
	ID        int64
	Number    string
	Capacity  int
	Status    TableStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
