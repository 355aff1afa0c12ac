package quote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmoliveira/quotation-service/internal/models"
)

var (
	ErrValidation  = errors.New("validation")  // 400
	ErrNotFound    = errors.New("not found")   // 404
	ErrTransaction = errors.New("transaction") // 500
)

// Service owns the quotation write and triage paths. The gorm handle
// is constructed at process start and passed in; every multi-table
// write runs inside a single transaction on it.
type Service struct {
	DB *gorm.DB
}

type SubmitItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type SubmitInput struct {
	Name    string
	Age     int
	Email   string
	Phone   string
	Rating  *int
	Comment string
	Items   []SubmitItem
}

type Receipt struct {
	QuotationID uint            `json:"quotation_id"`
	DisplayCode string          `json:"display_code"`
	Total       decimal.Decimal `json:"total"`
	HasFeedback bool            `json:"has_feedback"`
}

// Submit validates the request, merges duplicate product references,
// resolves current catalog prices and persists feedback, quotation and
// line items atomically. Either all rows exist afterwards or none do.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Receipt, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || email == "" || phone == "" || in.Age == 0 {
		return nil, fmt.Errorf("%w: missing_contact", ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: empty_items", ErrValidation)
	}
	if in.Age < 18 {
		return nil, fmt.Errorf("%w: invalid_age", ErrValidation)
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: invalid_item product_id=%d quantity=%d", ErrValidation, it.ProductID, it.Quantity)
		}
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, fmt.Errorf("%w: invalid_rating %d", ErrValidation, *in.Rating)
	}

	// Merge duplicate product references before touching the store.
	agg := make(map[int]int, len(in.Items))
	for _, it := range in.Items {
		agg[it.ProductID] += it.Quantity
	}
	ids := make([]int, 0, len(agg))
	for id := range agg {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var receipt *Receipt
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prods []models.Product
		if err := tx.Where("id IN ?", ids).Find(&prods).Error; err != nil {
			return fmt.Errorf("%w: load products: %v", ErrTransaction, err)
		}
		prices := make(map[int]decimal.Decimal, len(prods))
		for _, p := range prods {
			prices[int(p.ID)] = p.Price
		}
		for _, id := range ids {
			if _, ok := prices[id]; !ok {
				return fmt.Errorf("%w: unknown_product %d", ErrNotFound, id)
			}
		}

		total := decimal.Zero
		for _, id := range ids {
			total = total.Add(prices[id].Mul(decimal.NewFromInt(int64(agg[id]))))
		}

		var feedbackID *uint
		comment := strings.TrimSpace(in.Comment)
		if in.Rating != nil || comment != "" {
			fb := models.Feedback{Rating: in.Rating}
			if comment != "" {
				fb.Comment = &comment
			}
			if err := tx.Create(&fb).Error; err != nil {
				return fmt.Errorf("%w: create feedback: %v", ErrTransaction, err)
			}
			feedbackID = &fb.ID
		}

		q := models.Quotation{
			FeedbackID:    feedbackID,
			CustomerName:  name,
			CustomerAge:   in.Age,
			CustomerEmail: email,
			CustomerPhone: phone,
			Total:         total,
		}
		if err := tx.Create(&q).Error; err != nil {
			return fmt.Errorf("%w: create quotation: %v", ErrTransaction, err)
		}

		for _, id := range ids {
			item := models.QuotationItem{
				QuotationID: q.ID,
				ProductID:   uint(id),
				Quantity:    uint(agg[id]),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("%w: create item: %v", ErrTransaction, err)
			}
		}

		receipt = &Receipt{
			QuotationID: q.ID,
			DisplayCode: fmt.Sprintf("ORC-%d", q.ID),
			Total:       total,
			HasFeedback: feedbackID != nil,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
