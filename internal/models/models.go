package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name  string          `gorm:"not null"                    json:"name"`
	Price decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

// Feedback exists only when the customer left a rating or a comment.
type Feedback struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Rating    *int      `json:"rating"`
	Comment   *string   `json:"comment"`
	Read      bool      `gorm:"default:false"            json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Quotation is a submitted customer request. Total is captured at
// submission time and never recomputed from live catalog prices.
type Quotation struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	FeedbackID    *uint           `gorm:"index"                       json:"feedback_id"`
	CustomerName  string          `gorm:"not null"                    json:"customer_name"`
	CustomerAge   int             `gorm:"not null"                    json:"customer_age"`
	CustomerEmail string          `gorm:"not null"                    json:"customer_email"`
	CustomerPhone string          `gorm:"not null"                    json:"customer_phone"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Read          bool            `gorm:"default:false"               json:"read"`
	CreatedAt     time.Time       `json:"created_at"`
}

// One row per (quotation, product); duplicates submitted in a single
// request are merged before persistence.
type QuotationItem struct {
	ID          uint `gorm:"primaryKey;autoIncrement"                         json:"id"`
	QuotationID uint `gorm:"index;not null;uniqueIndex:idx_quotation_product" json:"quotation_id"`
	ProductID   uint `gorm:"not null;uniqueIndex:idx_quotation_product"       json:"product_id"`
	Quantity    uint `gorm:"not null;check:quantity>0"                        json:"quantity"`
}

type AdminUser struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}
