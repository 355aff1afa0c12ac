package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmoliveira/quotation-service/internal/logging"
	"github.com/rmoliveira/quotation-service/internal/mykafka"
	"github.com/rmoliveira/quotation-service/internal/service/quote"
)

type QuoteHandler struct {
	Service  *quote.Service
	Producer *mykafka.Producer
}

func quoteError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, quote.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, quote.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *QuoteHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "quotation_events", fmt.Sprint(event["quotationID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

type submitQuotationRequest struct {
	Name    string             `json:"name"`
	Age     int                `json:"age"`
	Email   string             `json:"email"`
	Phone   string             `json:"phone"`
	Rating  *int               `json:"rating"`
	Comment string             `json:"comment"`
	Items   []quote.SubmitItem `json:"items"`
}

func (h *QuoteHandler) SubmitQuotation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quote.submit")

	var req submitQuotationRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_quotation_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	receipt, err := h.Service.Submit(ctx, quote.SubmitInput{
		Name:    req.Name,
		Age:     req.Age,
		Email:   req.Email,
		Phone:   req.Phone,
		Rating:  req.Rating,
		Comment: req.Comment,
		Items:   req.Items,
	})
	if err != nil {
		l.Warn("submit_quotation_failed", "error", err)
		return quoteError(err)
	}

	h.publish(c, map[string]any{
		"type":         "quotation_submitted",
		"quotationID":  receipt.QuotationID,
		"display_code": receipt.DisplayCode,
		"total":        receipt.Total.StringFixed(2),
		"has_feedback": receipt.HasFeedback,
	})

	l.Info("submit_quotation_success", "quotation_id", receipt.QuotationID)
	return c.JSON(http.StatusCreated, receipt)
}

func (h *QuoteHandler) ListQuotations(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quote.list")

	quotes, err := h.Service.List(ctx)
	if err != nil {
		l.Error("list_quotations_failed", "error", err)
		return quoteError(err)
	}

	return c.JSON(http.StatusOK, quotes)
}

func (h *QuoteHandler) GetQuotationDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quote.detail")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("get_quotation_failed", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	detail, err := h.Service.GetDetail(ctx, uint(id))
	if err != nil {
		l.Warn("get_quotation_failed", "quotation_id", id, "error", err)
		return quoteError(err)
	}

	return c.JSON(http.StatusOK, detail)
}

type readFlagRequest struct {
	Read bool `json:"read"`
}

func (h *QuoteHandler) SetQuotationRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quote.set_read")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	var req readFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Service.SetQuotationRead(ctx, uint(id), req.Read); err != nil {
		l.Warn("set_quotation_read_failed", "quotation_id", id, "error", err)
		return quoteError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"id": id, "read": req.Read})
}

func (h *QuoteHandler) SetFeedbackRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quote.set_feedback_read")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	var req readFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Service.SetFeedbackRead(ctx, uint(id), req.Read); err != nil {
		l.Warn("set_feedback_read_failed", "feedback_id", id, "error", err)
		return quoteError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"id": id, "read": req.Read})
}

func (h *QuoteHandler) DeleteQuotation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quote.delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	if err := h.Service.Delete(ctx, uint(id)); err != nil {
		l.Warn("delete_quotation_failed", "quotation_id", id, "error", err)
		return quoteError(err)
	}

	h.publish(c, map[string]any{
		"type":        "quotation_deleted",
		"quotationID": id,
	})

	l.Info("delete_quotation_success", "quotation_id", id)
	return c.NoContent(http.StatusNoContent)
}
