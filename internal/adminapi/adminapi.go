// Package adminapi exposes the dashboard REST API: catalog management,
// order handling, settings, backups and store maintenance.
package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/savioluz/deliveryitaueira/internal/app"
	"github.com/savioluz/deliveryitaueira/internal/catalog"
	"github.com/savioluz/deliveryitaueira/internal/orders"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	app     *app.Application
	catalog *catalog.Service
	orders  *orders.Service
}

func NewHandler(a *app.Application, cat *catalog.Service, ord *orders.Service) *Handler {
	return &Handler{app: a, catalog: cat, orders: ord}
}

// Register mounts the login endpoint and the JWT-guarded admin group.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/api/login", h.login)

	g := e.Group("/api/admin")
	g.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(h.app.Config().Web.JwtSecret),
	}))

	g.GET("/storage", h.storageUsage)

	g.GET("/:tenant/products", h.listProducts)
	g.POST("/:tenant/products", h.createProduct)
	g.PUT("/:tenant/products/:id", h.updateProduct)
	g.DELETE("/:tenant/products/:id", h.deleteProduct)
	g.POST("/:tenant/products/:id/image", h.uploadProductImage)

	g.GET("/:tenant/combos", h.listCombos)
	g.POST("/:tenant/combos", h.createCombo)
	g.DELETE("/:tenant/combos/:id", h.deleteCombo)

	g.GET("/:tenant/orders", h.listOrders)
	g.PUT("/:tenant/orders/:id/status", h.updateOrderStatus)
	g.GET("/:tenant/orders/export", h.exportOrders)
	g.GET("/:tenant/analytics", h.analytics)
	g.GET("/:tenant/customers", h.listCustomers)

	g.GET("/:tenant/settings", h.getSettings)
	g.PATCH("/:tenant/settings", h.patchSettings)
	g.POST("/:tenant/settings/hero", h.uploadHeroImage)

	g.GET("/:tenant/backup", h.exportBackup)
	g.POST("/:tenant/backup", h.importBackup)
	g.DELETE("/:tenant/data", h.clearData)

	g.POST("/:tenant/maintenance/migrate", h.migrateImages)
	g.POST("/:tenant/maintenance/cleanup", h.cleanupImages)
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}

	web := h.app.Config().Web
	if strings.TrimSpace(payload.Username) != web.AdminUsername || payload.Password != web.AdminPassword {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	claims := jwt.MapClaims{
		"usr": payload.Username,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(web.JwtSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	return ok(c, echo.Map{"token": token})
}

func (h *Handler) storageUsage(c echo.Context) error {
	return ok(c, echo.Map{
		"usedBytes": h.app.Store().Records.EstimateUsage(),
		"maxBytes":  int64(store.MaxRecordBytes),
	})
}
