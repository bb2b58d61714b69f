// Package storeapi is the public storefront surface: no authentication, read
// access to the catalog and image blobs, plus the checkout endpoint.
package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/savioluz/deliveryitaueira/internal/catalog"
	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/orders"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

type Handler struct {
	store   *store.Store
	catalog *catalog.Service
	orders  *orders.Service
}

func NewHandler(st *store.Store, cat *catalog.Service, ord *orders.Service) *Handler {
	return &Handler{store: st, catalog: cat, orders: ord}
}

func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("/api/store/:tenant")
	g.GET("/catalog", h.getCatalog)
	g.GET("/images/:ref", h.getImage)
	g.POST("/checkout", h.checkout)
}

func (h *Handler) tenantParam(c echo.Context) (domain.Tenant, bool) {
	tenant := domain.Tenant(c.Param("tenant"))
	if !tenant.Valid() {
		_ = c.JSON(http.StatusNotFound, echo.Map{
			"code":    "UNKNOWN_STORE",
			"message": "Unknown store",
		})
		return "", false
	}
	return tenant, true
}

// getCatalog returns everything the storefront needs in one round trip.
func (h *Handler) getCatalog(c echo.Context) error {
	tenant, valid := h.tenantParam(c)
	if !valid {
		return nil
	}
	return c.JSON(http.StatusOK, echo.Map{
		"products": h.catalog.Products(tenant),
		"combos":   h.catalog.Combos(tenant),
		"settings": h.catalog.Settings(tenant),
	})
}

// getImage serves a stored blob. A tenant may only read its own derived keys,
// so the ref is checked against the tenant's product prefix and hero key.
func (h *Handler) getImage(c echo.Context) error {
	tenant, valid := h.tenantParam(c)
	if !valid {
		return nil
	}
	ref := c.Param("ref")
	if !strings.HasPrefix(ref, tenant.ImageKeyPrefix()) && ref != tenant.HeroImageKey() {
		return c.JSON(http.StatusNotFound, echo.Map{
			"code":    "NOT_FOUND",
			"message": "Image not found",
		})
	}
	img, found := h.store.Media.Get(ref)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{
			"code":    "NOT_FOUND",
			"message": "Image not found",
		})
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, img.Mime, img.Data)
}

type checkoutPayload struct {
	Items    []domain.OrderItem `json:"items"`
	Customer domain.Customer    `json:"customer"`
}

func (h *Handler) checkout(c echo.Context) error {
	tenant, valid := h.tenantParam(c)
	if !valid {
		return nil
	}
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"code":    "INVALID_REQUEST",
			"message": "Unable to parse checkout",
			"details": err.Error(),
		})
	}

	result, err := h.orders.Checkout(tenant, payload.Items, payload.Customer)
	if errors.Is(err, store.ErrQuotaExceeded) {
		return c.JSON(http.StatusInsufficientStorage, echo.Map{
			"code":    "QUOTA_EXCEEDED",
			"message": err.Error(),
		})
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"code":    "INVALID_REQUEST",
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": result})
}
