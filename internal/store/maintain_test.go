package store

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

// seedProducts writes the list verbatim, bypassing the sanitize step, the way
// an old release left inline payloads on disk.
func seedProducts(t *testing.T, st *Store, tenant domain.Tenant, products []domain.Product) {
	t.Helper()
	data, err := json.Marshal(products)
	require.NoError(t, err)
	require.NoError(t, st.Records.put(KindProducts, tenant, data))
}

func TestMigrateInlineImages(t *testing.T) {
	st := openTestStore(t)
	tenant := domain.TenantBurger
	inline := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 64, 48))

	seedProducts(t, st, tenant, []domain.Product{
		{ID: "p1", Name: "X-Burger", Image: inline},
		{ID: "p2", Name: "X-Salada"},
		{ID: "p3", Name: "X-Bacon", ImageBase64: base64.StdEncoding.EncodeToString(testPNG(t, 32, 32))},
	})

	migrated, err := st.MigrateInlineImages(tenant)
	require.NoError(t, err)
	assert.Equal(t, 2, migrated)

	products := st.Records.Products(tenant)
	require.Len(t, products, 3)
	byID := map[string]domain.Product{}
	for _, p := range products {
		byID[p.ID] = p
		assert.False(t, p.HasInlineImage(), "inline payload must be gone: %s", p.ID)
	}

	assert.Equal(t, "burger_p_p1", byID["p1"].ImageRef)
	assert.Equal(t, "burger_p_p3", byID["p3"].ImageRef)
	assert.Empty(t, byID["p2"].ImageRef)

	img, found := st.Media.Get("burger_p_p1")
	require.True(t, found)
	assert.Equal(t, "image/jpeg", img.Mime)
	assert.Equal(t, 64, img.Width)

	// A second pass finds nothing left to do.
	migrated, err = st.MigrateInlineImages(tenant)
	require.NoError(t, err)
	assert.Zero(t, migrated)
}

func TestMigrateSkipsUndecodablePayload(t *testing.T) {
	st := openTestStore(t)
	tenant := domain.TenantBurger

	seedProducts(t, st, tenant, []domain.Product{
		{ID: "p1", Name: "Broken", Image: "data:image/png;base64,%%%%"},
		{ID: "p2", Name: "Fine", Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 16, 16))},
	})

	migrated, err := st.MigrateInlineImages(tenant)
	require.NoError(t, err)
	assert.Equal(t, 1, migrated)

	// The broken product is skipped, not dropped; the rewrite still strips
	// its payload at the serialization boundary.
	products := st.Records.Products(tenant)
	require.Len(t, products, 2)

	_, found := st.Media.Get("burger_p_p1")
	assert.False(t, found)
	_, found = st.Media.Get("burger_p_p2")
	assert.True(t, found)
}

func TestCleanOrphanedImages(t *testing.T) {
	st := openTestStore(t)
	tenant := domain.TenantBurger

	for _, ref := range []string{"burger_p_a", "burger_p_b", "burger_p_c", "burger_hero", "sushi_p_z"} {
		require.NoError(t, st.Media.Put(ref, []byte(ref), domain.ImageMeta{}))
	}
	require.NoError(t, st.Records.SaveProducts(tenant, []domain.Product{
		{ID: "a", Name: "Kept", ImageRef: "burger_p_a"},
	}))

	deleted, err := st.CleanOrphanedImages(tenant)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, found := st.Media.Get("burger_p_a")
	assert.True(t, found, "referenced blob survives")
	_, found = st.Media.Get("burger_p_b")
	assert.False(t, found)
	_, found = st.Media.Get("burger_p_c")
	assert.False(t, found)

	// The hero image and other tenants are outside the derived-key prefix.
	_, found = st.Media.Get("burger_hero")
	assert.True(t, found)
	_, found = st.Media.Get("sushi_p_z")
	assert.True(t, found)
}

func TestMigrateThenCleanEndToEnd(t *testing.T) {
	st := openTestStore(t)
	tenant := domain.TenantSushi
	inline := base64.StdEncoding.EncodeToString(testPNG(t, 40, 40))

	seedProducts(t, st, tenant, []domain.Product{
		{ID: "s1", Name: "Hot Filadélfia", ImageBase64: inline},
	})

	migrated, err := st.MigrateInlineImages(tenant)
	require.NoError(t, err)
	require.Equal(t, 1, migrated)

	// Dropping the product orphans its blob; the next cleanup reclaims it.
	require.NoError(t, st.Records.SaveProducts(tenant, nil))

	deleted, err := st.CleanOrphanedImages(tenant)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Empty(t, st.Media.Keys(tenant.ImageKeyPrefix()))
}
