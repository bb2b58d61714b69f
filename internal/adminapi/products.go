package adminapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/savioluz/deliveryitaueira/internal/catalog"
	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

const maxUploadBytes = 5 * 1024 * 1024

type productPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageUrl    string  `json:"imageUrl"`
}

func (h *Handler) listProducts(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	page, pageSize := parsePagination(c)
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))

	all := h.catalog.Products(tenant)
	rows := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		rows = append(rows, p)
	}

	total := len(rows)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return paged(c, rows[start:end], total, page, pageSize)
}

func (h *Handler) createProduct(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	product, err := h.catalog.CreateProduct(tenant, domain.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		ImageUrl:    strings.TrimSpace(payload.ImageUrl),
	})
	if err != nil {
		return failSave(c, err, "Failed to create product")
	}
	return ok(c, product)
}

func (h *Handler) updateProduct(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	product, err := h.catalog.UpdateProduct(tenant, domain.Product{
		ID:          c.Param("id"),
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		ImageUrl:    strings.TrimSpace(payload.ImageUrl),
	})
	if errors.Is(err, catalog.ErrProductNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err != nil {
		return failSave(c, err, "Failed to update product")
	}
	return ok(c, product)
}

func (h *Handler) deleteProduct(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	err := h.catalog.DeleteProduct(tenant, c.Param("id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err != nil {
		return failSave(c, err, "Failed to delete product")
	}
	return ok(c, echo.Map{"id": c.Param("id")})
}

func (h *Handler) uploadProductImage(c echo.Context) error {
	tenant, valid := tenantParam(c)
	if !valid {
		return nil
	}
	data, err := readUpload(c, "image")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_UPLOAD", err.Error(), nil)
	}

	product, err := h.catalog.AttachImage(tenant, c.Param("id"), data)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err != nil {
		return failSave(c, err, "Failed to store product image")
	}
	return ok(c, product)
}

// readUpload extracts a bounded multipart file from the request.
func readUpload(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, errors.New("image file is required")
	}
	if fh.Size > maxUploadBytes {
		return nil, errors.New("image exceeds the 5MB upload limit")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	if len(data) > maxUploadBytes {
		return nil, errors.New("image exceeds the 5MB upload limit")
	}
	return data, nil
}

// failSave maps persistence errors onto the response envelope; quota refusals
// carry their own status so the dashboard can tell the admin to prune data.
func failSave(c echo.Context, err error, message string) error {
	if errors.Is(err, store.ErrQuotaExceeded) {
		return fail(c, http.StatusInsufficientStorage, "QUOTA_EXCEEDED", err.Error(), nil)
	}
	if errors.Is(err, store.ErrStorageUnavailable) {
		return fail(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error(), nil)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", message, err.Error())
}
