package products

import (
	"errors"
	"time"
)

type ProductStatus string

const (
	StatusActive   ProductStatus = "Active"
	StatusInactive ProductStatus = "Inactive"
)

const MaxImages = 3

type Product struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Subtitle  string        `json:"subtitle,omitempty"`
	Price     int64         `json:"price"`
	Category  string        `json:"category,omitempty"`
	Images    []string      `json:"images"`
	Stock     int           `json:"stock"`
	Status    ProductStatus `json:"status"`
	Version   int64         `json:"version"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

var (
	ErrNotFound     = errors.New("product not found")
	ErrNoTitle      = errors.New("product needs a title")
	ErrBadPrice     = errors.New("product price must be positive")
	ErrTooManyImage = errors.New("product allows at most 3 images")
)

func (p *Product) Validate() error {
	if p.Title == "" {
		return ErrNoTitle
	}
	if p.Price <= 0 {
		return ErrBadPrice
	}
	if len(p.Images) > MaxImages {
		return ErrTooManyImage
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	return nil
}
