package quote

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rmoliveira/quotation-service/internal/config"
	"github.com/rmoliveira/quotation-service/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func validInput(items ...SubmitItem) SubmitInput {
	return SubmitInput{
		Name:  "Maria Silva",
		Age:   30,
		Email: "maria@example.com",
		Phone: "11 99999-0000",
		Items: items,
	}
}

func TestSubmitAggregatesDuplicateItems(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}

	p := createProduct(t, db, "Mesa", "10.00")

	receipt, err := svc.Submit(context.Background(), validInput(
		SubmitItem{ProductID: int(p.ID), Quantity: 2},
		SubmitItem{ProductID: int(p.ID), Quantity: 3},
	))
	require.NoError(t, err)
	require.True(t, receipt.Total.Equal(decimal.RequireFromString("50.00")), "total was %s", receipt.Total)
	require.Equal(t, fmt.Sprintf("ORC-%d", receipt.QuotationID), receipt.DisplayCode)
	require.False(t, receipt.HasFeedback)

	var items []models.QuotationItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, p.ID, items[0].ProductID)
	require.Equal(t, uint(5), items[0].Quantity)
}

func TestSubmitTotalIsExactForAnyItemOrder(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}

	p1 := createProduct(t, db, "Cadeira", "19.99")
	p2 := createProduct(t, db, "Parafuso", "0.10")

	want := decimal.RequireFromString("60.27") // 3*19.99 + 3*0.10

	first, err := svc.Submit(context.Background(), validInput(
		SubmitItem{ProductID: int(p1.ID), Quantity: 3},
		SubmitItem{ProductID: int(p2.ID), Quantity: 3},
	))
	require.NoError(t, err)
	require.True(t, first.Total.Equal(want), "total was %s", first.Total)

	// Same items permuted and split across duplicates.
	second, err := svc.Submit(context.Background(), validInput(
		SubmitItem{ProductID: int(p2.ID), Quantity: 1},
		SubmitItem{ProductID: int(p1.ID), Quantity: 3},
		SubmitItem{ProductID: int(p2.ID), Quantity: 2},
	))
	require.NoError(t, err)
	require.True(t, second.Total.Equal(want), "total was %s", second.Total)
}

func TestSubmitValidationOrder(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	p := createProduct(t, db, "Mesa", "10.00")
	ctx := context.Background()

	// Blank contact wins over everything else.
	in := SubmitInput{Name: "  ", Age: 17, Email: "a@b.c", Phone: "1"}
	_, err := svc.Submit(ctx, in)
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "missing_contact")

	// Contact ok, no items.
	_, err = svc.Submit(ctx, validInput())
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "empty_items")

	// Items present, underage; item values are not checked yet.
	in = validInput(SubmitItem{ProductID: 0, Quantity: 0})
	in.Age = 17
	_, err = svc.Submit(ctx, in)
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "invalid_age")

	// Non-positive quantity.
	_, err = svc.Submit(ctx, validInput(SubmitItem{ProductID: int(p.ID), Quantity: 0}))
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "invalid_item")

	// Rating out of range.
	in = validInput(SubmitItem{ProductID: int(p.ID), Quantity: 1})
	rating := 6
	in.Rating = &rating
	_, err = svc.Submit(ctx, in)
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "invalid_rating")

	var count int64
	require.NoError(t, db.Model(&models.Quotation{}).Count(&count).Error)
	require.Zero(t, count, "validation failures must not persist rows")
}

func TestSubmitUnknownProductRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	p := createProduct(t, db, "Mesa", "10.00")

	rating := 4
	in := validInput(
		SubmitItem{ProductID: int(p.ID), Quantity: 2},
		SubmitItem{ProductID: 999, Quantity: 1},
	)
	in.Rating = &rating
	in.Comment = "would have feedback"

	_, err := svc.Submit(context.Background(), in)
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "unknown_product 999")

	for _, model := range []any{&models.Quotation{}, &models.QuotationItem{}, &models.Feedback{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Zero(t, count, "no %T row may survive the rollback", model)
	}
}

func TestSubmitWithoutFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	p := createProduct(t, db, "Mesa", "10.00")

	in := validInput(SubmitItem{ProductID: int(p.ID), Quantity: 1})
	in.Comment = "   " // blank comment, no rating

	receipt, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	require.False(t, receipt.HasFeedback)

	var q models.Quotation
	require.NoError(t, db.First(&q, receipt.QuotationID).Error)
	require.Nil(t, q.FeedbackID)

	var count int64
	require.NoError(t, db.Model(&models.Feedback{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSubmitWithFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	p := createProduct(t, db, "Mesa", "10.00")

	rating := 5
	in := validInput(SubmitItem{ProductID: int(p.ID), Quantity: 1})
	in.Rating = &rating
	in.Comment = "  atendimento excelente  "

	receipt, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	require.True(t, receipt.HasFeedback)

	var q models.Quotation
	require.NoError(t, db.First(&q, receipt.QuotationID).Error)
	require.NotNil(t, q.FeedbackID)

	var fb models.Feedback
	require.NoError(t, db.First(&fb, *q.FeedbackID).Error)
	require.False(t, fb.Read)
	require.NotNil(t, fb.Rating)
	require.Equal(t, 5, *fb.Rating)
	require.NotNil(t, fb.Comment)
	require.Equal(t, "atendimento excelente", *fb.Comment)
}

func TestSubmitRatingOnlyCreatesFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	p := createProduct(t, db, "Mesa", "10.00")

	rating := 3
	in := validInput(SubmitItem{ProductID: int(p.ID), Quantity: 1})
	in.Rating = &rating

	receipt, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	require.True(t, receipt.HasFeedback)

	var fb models.Feedback
	require.NoError(t, db.First(&fb).Error)
	require.Nil(t, fb.Comment)
}
