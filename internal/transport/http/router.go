package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rmoliveira/quotation-service/internal/handlers"
	"github.com/rmoliveira/quotation-service/internal/jwtmiddleware"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	QuoteHandler   *handlers.QuoteHandler
	SearchHandler  *handlers.SearchHandler
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	v1 := e.Group("/api/v1")

	v1.POST("/login", d.AuthHandler.Login)
	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	v1.POST("/quotations", d.QuoteHandler.SubmitQuotation)

	admin := v1.Group("/admin", jwtmiddleware.RequireAdmin(d.JWTSecret))

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PUT("/products/:id", d.ProductHandler.UpdateProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.GET("/quotations", d.QuoteHandler.ListQuotations)
	admin.GET("/quotations/:id", d.QuoteHandler.GetQuotationDetail)
	admin.PUT("/quotations/:id/read", d.QuoteHandler.SetQuotationRead)
	admin.DELETE("/quotations/:id", d.QuoteHandler.DeleteQuotation)
	admin.PUT("/feedback/:id/read", d.QuoteHandler.SetFeedbackRead)
}
