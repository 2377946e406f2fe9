package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"restopos/internal/domain"
)

type CategoryDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c CategoryDTO) ToDomain() domain.Category {
	return domain.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type MenuItemDTO struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Category    *CategoryDTO    `json:"category,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (m MenuItemDTO) ToDomain() domain.MenuItem {
	category := ""
	if m.Category != nil {
		category = m.Category.Name
	}
	return domain.MenuItem{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Category:    category,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		IsAvailable: m.IsAvailable,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// MenuItemRequest is sent as multipart/form-data so an image can ride along.
type MenuItemRequest struct {
	CategoryID  int64
	Name        string
	Description string
	Price       decimal.Decimal
	IsAvailable bool
	ImageName   string
	Image       []byte
}

type TableDTO struct {
	ID        int64     `json:"id"`
	Number    string    `json:"table_number"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t TableDTO) ToDomain() domain.Table {
	return domain.Table{
		ID:        t.ID,
		Number:    t.Number,
		Capacity:  t.Capacity,
		Status:    domain.TableStatus(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type TableRequest struct {
	Number   string `json:"table_number"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status,omitempty"`
}
