package adminapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/savioluz/deliveryitaueira/internal/backup"
)

const maxBackupBytes = 16 * 1024 * 1024

func (h *Handler) exportBackup(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	doc, err := backup.Export(h.app.Store(), tenant)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export backup", err.Error())
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) importBackup(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBackupBytes))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read backup document", err.Error())
	}

	err = backup.Import(h.app.Store(), tenant, raw)
	switch {
	case errors.Is(err, backup.ErrTenantMismatch):
		return fail(c, http.StatusConflict, "TENANT_MISMATCH", "Backup belongs to a different store", nil)
	case errors.Is(err, backup.ErrInvalidDocument):
		return fail(c, http.StatusBadRequest, "INVALID_BACKUP", "Backup document is not valid", err.Error())
	case err != nil:
		return failSave(c, err, "Failed to import backup")
	}
	return ok(c, echo.Map{"imported": true})
}

// clearData is the dashboard danger zone: every collection of the tenant is
// removed. Blobs are left for the cleanup pass.
func (h *Handler) clearData(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	if err := h.app.Store().Records.Clear(tenant); err != nil {
		return failSave(c, err, "Failed to clear store data")
	}
	return ok(c, echo.Map{"cleared": true})
}
