package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/savioluz/deliveryitaueira/internal/catalog"
	"github.com/savioluz/deliveryitaueira/internal/domain"
)

type comboPayload struct {
	ProductID       string  `json:"productId"`
	Description     string  `json:"description"`
	AdditionalPrice float64 `json:"additionalPrice"`
}

func (h *Handler) listCombos(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	return ok(c, h.catalog.Combos(tenant))
}

func (h *Handler) createCombo(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	var payload comboPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse combo", err.Error())
	}

	combo, err := h.catalog.CreateCombo(tenant, domain.Combo{
		ProductID:       payload.ProductID,
		Description:     payload.Description,
		AdditionalPrice: payload.AdditionalPrice,
	})
	if err != nil {
		return failSave(c, err, "Failed to create combo")
	}
	return ok(c, combo)
}

func (h *Handler) deleteCombo(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	err := h.catalog.DeleteCombo(tenant, c.Param("id"))
	if errors.Is(err, catalog.ErrComboNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Combo not found", nil)
	}
	if err != nil {
		return failSave(c, err, "Failed to delete combo")
	}
	return ok(c, echo.Map{"id": c.Param("id")})
}
