package domain

// StoreSettings holds the per-tenant storefront configuration. HeroImageRef
// points into the media store; HeroImageURL is an external fallback.
type StoreSettings struct {
	TenantID               Tenant  `json:"storeId"`
	Name                   string  `json:"name"`
	Whatsapp               string  `json:"whatsapp"`
	HeroImageRef           string  `json:"heroImageRef,omitempty"`
	HeroImageURL           string  `json:"heroImageUrl,omitempty"`
	DeliveryFee            float64 `json:"deliveryFee"`
	QuantityPricingEnabled bool    `json:"quantityPricingEnabled"`
	QuantityTier1Max       int     `json:"quantityTier1Max"`
	QuantityTier1Price     float64 `json:"quantityTier1Price"`
	QuantityTier2Price     float64 `json:"quantityTier2Price"`
}

// DefaultSettings returns the stock configuration for a tenant. The sushi
// store sells by the piece with a two-tier price break.
func DefaultSettings(t Tenant) StoreSettings {
	s := StoreSettings{
		TenantID:    t,
		Whatsapp:    "5586999482285",
		DeliveryFee: 4.0,
	}
	switch t {
	case TenantSushi:
		s.Name = "Itaueira Hot Sushi"
		s.QuantityPricingEnabled = true
		s.QuantityTier1Max = 9
		s.QuantityTier1Price = 3.5
		s.QuantityTier2Price = 3.0
	default:
		s.Name = "Itaueira Burger Raiz"
	}
	return s
}
