package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) getSettings(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	return ok(c, h.catalog.Settings(tenant))
}

func (h *Handler) patchSettings(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	patch := map[string]interface{}{}
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}

	settings, err := h.catalog.PatchSettings(tenant, patch)
	if err != nil {
		return failSave(c, err, "Failed to save settings")
	}
	return ok(c, settings)
}

func (h *Handler) uploadHeroImage(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	data, err := readUpload(c, "image")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_UPLOAD", err.Error(), nil)
	}

	settings, err := h.catalog.SetHeroImage(tenant, data)
	if err != nil {
		return failSave(c, err, "Failed to store hero image")
	}
	return ok(c, settings)
}
