package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rmoliveira/quotation-service/internal/hash"
	"github.com/rmoliveira/quotation-service/internal/logging"
	"github.com/rmoliveira/quotation-service/internal/models"
	"github.com/rmoliveira/quotation-service/internal/service/token"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// Login authenticates the admin panel. The returned bearer token gates
// every triage and catalog-write route.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	var admin models.AdminUser
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&admin).Error; err != nil {
		l.Warn("login_failed", "username", req.Username, "reason", "unknown user")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if !hash.CheckPassword(admin.PasswordHash, req.Password) {
		l.Warn("login_failed", "username", req.Username, "reason", "wrong password")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	signed, err := token.SignAdminToken(admin.Username, h.JWTSecret)
	if err != nil {
		l.Error("login_failed", "username", req.Username, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create token")
	}

	l.Info("login_success", "username", admin.Username)
	return c.JSON(http.StatusOK, map[string]string{"token": signed})
}
