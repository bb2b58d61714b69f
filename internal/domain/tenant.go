package domain

// Tenant identifies one of the two stores sharing this codebase.
type Tenant string

const (
	TenantBurger Tenant = "burger"
	TenantSushi  Tenant = "sushi"
)

// Tenants lists every known store.
var Tenants = []Tenant{TenantBurger, TenantSushi}

func (t Tenant) Valid() bool {
	switch t {
	case TenantBurger, TenantSushi:
		return true
	}
	return false
}

func (t Tenant) String() string { return string(t) }

// ImageKeyPrefix is the derived-key prefix for product images owned by this
// tenant inside the media store.
func (t Tenant) ImageKeyPrefix() string { return string(t) + "_p_" }

// ProductImageKey derives the media-store key for a product image.
func (t Tenant) ProductImageKey(productID string) string {
	return t.ImageKeyPrefix() + productID
}

// HeroImageKey derives the media-store key for the storefront hero image.
func (t Tenant) HeroImageKey() string { return string(t) + "_hero" }
