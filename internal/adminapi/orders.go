package adminapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/savioluz/deliveryitaueira/internal/checkout"
	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/orders"
)

func (h *Handler) listOrders(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	status := domain.OrderStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status", string(status))
	}
	return ok(c, h.orders.List(tenant, status))
}

type statusPayload struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) updateOrderStatus(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}

	order, err := h.orders.UpdateStatus(tenant, c.Param("id"), payload.Status)
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status", string(payload.Status))
	case errors.Is(err, orders.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	case err != nil:
		return failSave(c, err, "Failed to update order")
	}

	// The dashboard offers a one-click customer notification.
	return ok(c, echo.Map{
		"order":     order,
		"notifyUrl": checkout.StatusLink(*order),
	})
}

func (h *Handler) listCustomers(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	return ok(c, h.orders.Customers(tenant))
}

func (h *Handler) analytics(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	var since time.Time
	if raw := c.QueryParam("since"); raw != "" {
		parsed, err := dateparse.ParseAny(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse since parameter", raw)
		}
		since = parsed
	}
	return ok(c, h.orders.Analytics(tenant, since))
}

const exportSheet = "Sheet1"

var exportHeader = []string{"Order", "Date", "Status", "Customer", "Phone", "Neighborhood", "Items", "Total"}

// exportOrders streams the tenant's orders as a spreadsheet.
func (h *Handler) exportOrders(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}

	f := excelize.NewFile()
	for col, title := range exportHeader {
		f.SetCellValue(exportSheet, fmt.Sprintf("%c1", 'A'+col), title)
	}

	for i, order := range h.orders.List(tenant, "") {
		row := i + 2
		items := 0
		for _, it := range order.Items {
			items += it.Quantity
		}
		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), checkout.ShortID(order.ID))
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), order.CreatedAt.Format("02/01/2006 15:04"))
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), checkout.StatusLabel(order.Status))
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), order.Customer.Name)
		f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), order.Customer.Phone)
		f.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), order.Customer.Neighborhood)
		f.SetCellValue(exportSheet, fmt.Sprintf("G%d", row), items)
		f.SetCellValue(exportSheet, fmt.Sprintf("H%d", row), order.Total)
	}

	filename := fmt.Sprintf("orders_%s_%s.xlsx", tenant, time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
