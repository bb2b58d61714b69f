package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) migrateImages(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	count, err := h.app.Store().MigrateInlineImages(tenant)
	if err != nil {
		return failSave(c, err, "Image migration failed")
	}
	return ok(c, echo.Map{"migrated": count})
}

func (h *Handler) cleanupImages(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	count, err := h.app.Store().CleanOrphanedImages(tenant)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CLEANUP_ERROR", "Image cleanup failed", err.Error())
	}
	return ok(c, echo.Map{"deleted": count})
}
