package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"data": data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, echo.Map{
		"code":    code,
		"message": message,
		"details": details,
	})
}

func paged(c echo.Context, rows interface{}, total int, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"data":    rows,
		"total":   total,
		"page":    page,
		"perPage": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = 20
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// tenantParam validates the :tenant path segment; a nil Tenant result means
// the response has already been written.
func tenantParam(c echo.Context) (domain.Tenant, bool) {
	tenant := domain.Tenant(c.Param("tenant"))
	if !tenant.Valid() {
		_ = fail(c, http.StatusNotFound, "UNKNOWN_STORE", "Unknown store", c.Param("tenant"))
		return "", false
	}
	return tenant, true
}
