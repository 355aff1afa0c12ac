package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmoliveira/quotation-service/internal/models"
)

type ListedQuotation struct {
	ID            uint            `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerAge   int             `json:"customer_age"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Total         decimal.Decimal `json:"total"`
	Read          bool            `json:"read"`
	CreatedAt     time.Time       `json:"created_at"`
	FeedbackID    *uint           `json:"feedback_id"`
	Rating        *int            `json:"rating"`
	Comment       *string         `json:"comment"`
	FeedbackRead  *bool           `json:"feedback_read"`
	Items         string          `json:"items"`
}

type DetailItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  uint            `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Detail struct {
	Quotation  models.Quotation `json:"quotation"`
	Feedback   *models.Feedback `json:"feedback"`
	Items      []DetailItem     `json:"items"`
	ItemsTotal decimal.Decimal  `json:"items_total"`
}

type summaryRow struct {
	Name     string
	Quantity uint
	Price    decimal.Decimal
}

// List returns all quotations newest-first, each joined with its
// feedback and a display summary of its line items.
func (s *Service) List(ctx context.Context) ([]ListedQuotation, error) {
	db := s.DB.WithContext(ctx)

	var quotes []models.Quotation
	if err := db.Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("%w: load quotations: %v", ErrTransaction, err)
	}

	feedbackIDs := make([]uint, 0, len(quotes))
	for _, q := range quotes {
		if q.FeedbackID != nil {
			feedbackIDs = append(feedbackIDs, *q.FeedbackID)
		}
	}
	feedbacks := make(map[uint]models.Feedback, len(feedbackIDs))
	if len(feedbackIDs) > 0 {
		var rows []models.Feedback
		if err := db.Where("id IN ?", feedbackIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("%w: load feedback: %v", ErrTransaction, err)
		}
		for _, fb := range rows {
			feedbacks[fb.ID] = fb
		}
	}

	out := make([]ListedQuotation, 0, len(quotes))
	for _, q := range quotes {
		summary, err := s.itemSummary(db, q.ID)
		if err != nil {
			return nil, err
		}

		lq := ListedQuotation{
			ID:            q.ID,
			CustomerName:  q.CustomerName,
			CustomerAge:   q.CustomerAge,
			CustomerEmail: q.CustomerEmail,
			CustomerPhone: q.CustomerPhone,
			Total:         q.Total,
			Read:          q.Read,
			CreatedAt:     q.CreatedAt,
			FeedbackID:    q.FeedbackID,
			Items:         summary,
		}
		if q.FeedbackID != nil {
			if fb, ok := feedbacks[*q.FeedbackID]; ok {
				lq.Rating = fb.Rating
				lq.Comment = fb.Comment
				read := fb.Read
				lq.FeedbackRead = &read
			}
		}
		out = append(out, lq)
	}
	return out, nil
}

func (s *Service) itemSummary(db *gorm.DB, quotationID uint) (string, error) {
	var rows []summaryRow
	err := db.Table("quotation_items").
		Select("products.name AS name, quotation_items.quantity AS quantity, products.price AS price").
		Joins("JOIN products ON products.id = quotation_items.product_id").
		Where("quotation_items.quotation_id = ?", quotationID).
		Order("quotation_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return "", fmt.Errorf("%w: load items: %v", ErrTransaction, err)
	}

	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, fmt.Sprintf("%s (%d un × R$ %s)", r.Name, r.Quantity, r.Price.StringFixed(2)))
	}
	return strings.Join(parts, ", "), nil
}

// GetDetail returns the full quotation with feedback and resolved line
// items. ItemsTotal is recomputed from current rows as a display
// fallback only; Quotation.Total stays the submission-time value.
func (s *Service) GetDetail(ctx context.Context, id uint) (*Detail, error) {
	db := s.DB.WithContext(ctx)

	var q models.Quotation
	if err := db.First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quotation %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: load quotation: %v", ErrTransaction, err)
	}

	detail := &Detail{Quotation: q}

	if q.FeedbackID != nil {
		var fb models.Feedback
		if err := db.First(&fb, *q.FeedbackID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: load feedback: %v", ErrTransaction, err)
			}
		} else {
			detail.Feedback = &fb
		}
	}

	var rows []struct {
		ProductID uint
		Name      string
		Price     decimal.Decimal
		Quantity  uint
	}
	err := db.Table("quotation_items").
		Select("products.id AS product_id, products.name AS name, products.price AS price, quotation_items.quantity AS quantity").
		Joins("JOIN products ON products.id = quotation_items.product_id").
		Where("quotation_items.quotation_id = ?", id).
		Order("quotation_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load items: %v", ErrTransaction, err)
	}

	itemsTotal := decimal.Zero
	detail.Items = make([]DetailItem, 0, len(rows))
	for _, r := range rows {
		sub := r.Price.Mul(decimal.NewFromInt(int64(r.Quantity)))
		itemsTotal = itemsTotal.Add(sub)
		detail.Items = append(detail.Items, DetailItem{
			ProductID: r.ProductID,
			Name:      r.Name,
			Price:     r.Price,
			Quantity:  r.Quantity,
			Subtotal:  sub,
		})
	}
	detail.ItemsTotal = itemsTotal

	return detail, nil
}

// SetQuotationRead is an idempotent flag update; writing the current
// value succeeds without error.
func (s *Service) SetQuotationRead(ctx context.Context, id uint, read bool) error {
	res := s.DB.WithContext(ctx).Model(&models.Quotation{}).Where("id = ?", id).Update("read", read)
	if res.Error != nil {
		return fmt.Errorf("%w: update quotation: %v", ErrTransaction, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: quotation %d", ErrNotFound, id)
	}
	return nil
}

func (s *Service) SetFeedbackRead(ctx context.Context, id uint, read bool) error {
	res := s.DB.WithContext(ctx).Model(&models.Feedback{}).Where("id = ?", id).Update("read", read)
	if res.Error != nil {
		return fmt.Errorf("%w: update feedback: %v", ErrTransaction, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: feedback %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes the quotation, its line items and its linked feedback
// in one transaction. No deletion persists alone.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q models.Quotation
		if err := tx.First(&q, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quotation %d", ErrNotFound, id)
			}
			return fmt.Errorf("%w: load quotation: %v", ErrTransaction, err)
		}

		if err := tx.Where("quotation_id = ?", id).Delete(&models.QuotationItem{}).Error; err != nil {
			return fmt.Errorf("%w: delete items: %v", ErrTransaction, err)
		}
		if err := tx.Delete(&models.Quotation{}, id).Error; err != nil {
			return fmt.Errorf("%w: delete quotation: %v", ErrTransaction, err)
		}
		if q.FeedbackID != nil {
			if err := tx.Delete(&models.Feedback{}, *q.FeedbackID).Error; err != nil {
				return fmt.Errorf("%w: delete feedback: %v", ErrTransaction, err)
			}
		}
		return nil
	})
}
