// Package catalog manages the per-tenant product and combo collections and
// the storefront settings.
package catalog

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrComboNotFound   = errors.New("combo not found")
)

type Service struct {
	store *store.Store
	node  *snowflake.Node
}

func NewService(st *store.Store, node *snowflake.Node) *Service {
	return &Service{store: st, node: node}
}

func (s *Service) Products(tenant domain.Tenant) []domain.Product {
	return s.store.Records.Products(tenant)
}

func (s *Service) Product(tenant domain.Tenant, id string) (*domain.Product, error) {
	for _, p := range s.store.Records.Products(tenant) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func validateProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Price < 0 {
		return errors.New("product price must not be negative")
	}
	p.Category = strings.TrimSpace(p.Category)
	return nil
}

// CreateProduct assigns an ID and persists the product.
func (s *Service) CreateProduct(tenant domain.Tenant, p domain.Product) (*domain.Product, error) {
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	p.ID = s.node.Generate().String()
	p.TenantID = tenant
	p.UpdatedAt = time.Now().UnixMilli()

	all := append(s.store.Records.Products(tenant), p)
	if err := s.store.Records.SaveProducts(tenant, all); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct replaces the stored record by ID.
func (s *Service) UpdateProduct(tenant domain.Tenant, p domain.Product) (*domain.Product, error) {
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	p.TenantID = tenant
	p.UpdatedAt = time.Now().UnixMilli()

	all := s.store.Records.Products(tenant)
	for i := range all {
		if all[i].ID != p.ID {
			continue
		}
		// The stored image reference survives unless the caller replaces it.
		if p.ImageRef == "" {
			p.ImageRef = all[i].ImageRef
		}
		all[i] = p
		if err := s.store.Records.SaveProducts(tenant, all); err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, ErrProductNotFound
}

// DeleteProduct removes the record and best-effort deletes its stored image.
// The blob delete may fail silently; the nightly cleanup reclaims leftovers.
func (s *Service) DeleteProduct(tenant domain.Tenant, id string) error {
	all := s.store.Records.Products(tenant)
	kept := make([]domain.Product, 0, len(all))
	found := false
	removedRef := ""
	for _, p := range all {
		if p.ID == id {
			found = true
			removedRef = p.ImageRef
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrProductNotFound
	}
	if err := s.store.Records.SaveProducts(tenant, kept); err != nil {
		return err
	}
	if removedRef != "" {
		s.store.Media.Delete(removedRef)
	}
	return nil
}

// AttachImage compresses the upload, stores it under the tenant's derived
// key, and rewrites the product to reference it.
func (s *Service) AttachImage(tenant domain.Tenant, productID string, data []byte) (*domain.Product, error) {
	img, err := store.CompressImage(data, store.DefaultMaxSide)
	if err != nil {
		return nil, err
	}

	imageRef := tenant.ProductImageKey(productID)
	if err := s.store.Media.Put(imageRef, img.Data, img.ImageMeta); err != nil {
		return nil, err
	}

	all := s.store.Records.Products(tenant)
	for i := range all {
		if all[i].ID != productID {
			continue
		}
		all[i].ImageRef = imageRef
		all[i].UpdatedAt = time.Now().UnixMilli()
		if err := s.store.Records.SaveProducts(tenant, all); err != nil {
			// The blob landed but the record did not; the orphan is
			// reclaimed by the cleanup pass later.
			return nil, err
		}
		p := all[i]
		return &p, nil
	}
	return nil, ErrProductNotFound
}

func (s *Service) Combos(tenant domain.Tenant) []domain.Combo {
	return s.store.Records.Combos(tenant)
}

func (s *Service) CreateCombo(tenant domain.Tenant, c domain.Combo) (*domain.Combo, error) {
	c.Description = strings.TrimSpace(c.Description)
	if c.Description == "" {
		return nil, errors.New("combo description is required")
	}
	if c.AdditionalPrice < 0 {
		return nil, errors.New("combo additional price must not be negative")
	}
	c.ID = s.node.Generate().String()

	all := append(s.store.Records.Combos(tenant), c)
	if err := s.store.Records.SaveCombos(tenant, all); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) DeleteCombo(tenant domain.Tenant, id string) error {
	all := s.store.Records.Combos(tenant)
	kept := make([]domain.Combo, 0, len(all))
	found := false
	for _, c := range all {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return ErrComboNotFound
	}
	return s.store.Records.SaveCombos(tenant, kept)
}

func (s *Service) Settings(tenant domain.Tenant) domain.StoreSettings {
	settings, _ := s.store.Records.Settings(tenant)
	return settings
}

// PatchSettings merges a loosely-typed patch into the stored settings.
// Values arrive from JSON and may be strings or numbers; cast coerces them.
func (s *Service) PatchSettings(tenant domain.Tenant, patch map[string]interface{}) (domain.StoreSettings, error) {
	settings, _ := s.store.Records.Settings(tenant)
	for key, value := range patch {
		switch key {
		case "name":
			settings.Name = cast.ToString(value)
		case "whatsapp":
			settings.Whatsapp = cast.ToString(value)
		case "heroImageUrl":
			settings.HeroImageURL = cast.ToString(value)
		case "deliveryFee":
			settings.DeliveryFee = cast.ToFloat64(value)
		case "quantityPricingEnabled":
			settings.QuantityPricingEnabled = cast.ToBool(value)
		case "quantityTier1Max":
			settings.QuantityTier1Max = cast.ToInt(value)
		case "quantityTier1Price":
			settings.QuantityTier1Price = cast.ToFloat64(value)
		case "quantityTier2Price":
			settings.QuantityTier2Price = cast.ToFloat64(value)
		default:
			zap.L().Warn("unknown settings field ignored",
				zap.String("tenant", tenant.String()),
				zap.String("field", key))
		}
	}
	if err := s.store.Records.SaveSettings(tenant, settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// SetHeroImage compresses and stores the storefront hero image.
func (s *Service) SetHeroImage(tenant domain.Tenant, data []byte) (domain.StoreSettings, error) {
	settings, _ := s.store.Records.Settings(tenant)

	img, err := store.CompressImage(data, store.DefaultMaxSide)
	if err != nil {
		return settings, err
	}
	imageRef := tenant.HeroImageKey()
	if err := s.store.Media.Put(imageRef, img.Data, img.ImageMeta); err != nil {
		return settings, err
	}

	settings.HeroImageRef = imageRef
	if err := s.store.Records.SaveSettings(tenant, settings); err != nil {
		return settings, err
	}
	return settings, nil
}
