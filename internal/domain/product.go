package domain

// Product is a catalog entry scoped to a single tenant. At render time at most
// one of ImageRef/ImageURL is authoritative; ImageRef wins when both are set.
// The Image/ImageBase64 fields only exist on records written by old releases
// that stored the encoded image inline; new writes never persist them.
type Product struct {
	ID          string  `json:"id"`
	TenantID    Tenant  `json:"storeId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageRef    string  `json:"imageRef,omitempty"`
	ImageUrl    string  `json:"imageUrl,omitempty"`
	UpdatedAt   int64   `json:"updatedAt"`

	// Legacy inline-encoded image payloads, migrated out by the media store.
	Image       string `json:"image,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// HasInlineImage reports whether the record still carries a legacy inline
// encoded image that should be migrated into the media store.
func (p Product) HasInlineImage() bool {
	return p.ImageBase64 != "" || p.Image != ""
}

// InlineImageData returns the raw inline payload, preferring the data-URI
// field as the original storefront did.
func (p Product) InlineImageData() string {
	if p.Image != "" {
		return p.Image
	}
	return p.ImageBase64
}

// Combo is an optional add-on priced on top of a product. ProductID is a weak
// reference; a dangling combo is tolerated and simply never offered.
type Combo struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"productId"`
	Description     string  `json:"description"`
	AdditionalPrice float64 `json:"additionalPrice"`
}
