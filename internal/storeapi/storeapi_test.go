package storeapi

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savioluz/deliveryitaueira/internal/catalog"
	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/orders"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestAPI(t *testing.T) (*echo.Echo, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cat := catalog.NewService(st, node)
	ord := orders.NewService(st, node, EventBus.New())

	e := echo.New()
	NewHandler(st, cat, ord).Register(e)
	return e, st
}

func TestGetCatalog(t *testing.T) {
	e, st := newTestAPI(t)
	require.NoError(t, st.Records.SaveProducts(domain.TenantBurger, []domain.Product{
		{ID: "p1", Name: "X-Burger", Price: 18.5},
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/store/burger/catalog", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []domain.Product     `json:"products"`
		Combos   []domain.Combo       `json:"combos"`
		Settings domain.StoreSettings `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	assert.Equal(t, "X-Burger", body.Products[0].Name)
	assert.Equal(t, "Itaueira Burger Raiz", body.Settings.Name)
}

func TestGetCatalogUnknownTenant(t *testing.T) {
	e, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/store/padaria/catalog", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetImage(t *testing.T) {
	e, st := newTestAPI(t)
	require.NoError(t, st.Media.Put("burger_p_p1", []byte{0xFF, 0xD8, 0x01}, domain.ImageMeta{Mime: "image/jpeg"}))
	require.NoError(t, st.Media.Put("sushi_p_s1", []byte{0x02}, domain.ImageMeta{}))
	require.NoError(t, st.Media.Put("burger_hero", []byte{0x03}, domain.ImageMeta{}))

	t.Run("OwnBlob", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/store/burger/images/burger_p_p1", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/jpeg", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, []byte{0xFF, 0xD8, 0x01}, rec.Body.Bytes())
	})

	t.Run("Hero", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/store/burger/images/burger_hero", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("OtherTenantBlob", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/store/burger/images/sushi_p_s1", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("MissingBlob", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/store/burger/images/burger_p_none", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCheckoutEndpoint(t *testing.T) {
	e, st := newTestAPI(t)

	payload := `{
		"items": [{"productId": "p1", "name": "X-Burger", "price": 18.5, "quantity": 2}],
		"customer": {"name": "Maria", "phone": "86999482285", "address": "Rua A, 10", "neighborhood": "Centro"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/store/burger/checkout", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data orders.CheckoutResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 41.0, body.Data.Order.Total)
	assert.True(t, strings.HasPrefix(body.Data.Link, "https://wa.me/"))

	assert.Len(t, st.Records.Orders(domain.TenantBurger), 1)
}

func TestCheckoutEndpointRejectsEmptyCart(t *testing.T) {
	e, _ := newTestAPI(t)

	payload := `{"items": [], "customer": {"name": "Maria", "phone": "86999482285", "address": "Rua A", "neighborhood": "Centro"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/store/burger/checkout", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
