package store

import (
	"go.uber.org/zap"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

// MigrateInlineImages rewrites every product record of the tenant that still
// carries a legacy inline-encoded image: the payload is decoded, compressed,
// stored in the media store under the derived key, and the record switched to
// reference it. Each product migrates independently; a failure on one is
// logged and the rest proceed. The rewritten list is persisted only when at
// least one product actually migrated.
func (s *Store) MigrateInlineImages(tenant domain.Tenant) (int, error) {
	products := s.Records.Products(tenant)
	migrated := 0

	for i := range products {
		p := &products[i]
		if !p.HasInlineImage() {
			continue
		}

		data, err := DecodeInlineImage(p.InlineImageData())
		if err != nil {
			zap.L().Error("migration: inline image undecodable, skipping product",
				zap.String("tenant", tenant.String()),
				zap.String("product", p.ID),
				zap.Error(err))
			continue
		}

		img, err := CompressImage(data, DefaultMaxSide)
		if err != nil {
			zap.L().Error("migration: compression failed, skipping product",
				zap.String("tenant", tenant.String()),
				zap.String("product", p.ID),
				zap.Error(err))
			continue
		}

		imageRef := tenant.ProductImageKey(p.ID)
		if err := s.Media.Put(imageRef, img.Data, img.ImageMeta); err != nil {
			zap.L().Error("migration: media store write failed, skipping product",
				zap.String("tenant", tenant.String()),
				zap.String("product", p.ID),
				zap.Error(err))
			continue
		}

		p.ImageRef = imageRef
		p.Image = ""
		p.ImageBase64 = ""
		migrated++
	}

	if migrated == 0 {
		return 0, nil
	}

	if err := s.Records.SaveProducts(tenant, products); err != nil {
		return 0, err
	}

	zap.L().Info("inline image migration completed",
		zap.String("tenant", tenant.String()),
		zap.Int("migrated", migrated))
	return migrated, nil
}

// CleanOrphanedImages deletes every media-store blob under the tenant's
// derived-key prefix that no product record references. Orphans appear when a
// blob write succeeds but the record rewrite never lands; there is no
// transaction spanning the two stores.
func (s *Store) CleanOrphanedImages(tenant domain.Tenant) (int, error) {
	referenced := make(map[string]struct{})
	for _, p := range s.Records.Products(tenant) {
		if p.ImageRef != "" {
			referenced[p.ImageRef] = struct{}{}
		}
	}

	deleted := 0
	for _, key := range s.Media.Keys(tenant.ImageKeyPrefix()) {
		if _, ok := referenced[key]; ok {
			continue
		}
		s.Media.Delete(key)
		deleted++
		zap.L().Debug("orphaned image removed",
			zap.String("tenant", tenant.String()),
			zap.String("imageRef", key))
	}

	if deleted > 0 {
		zap.L().Info("orphaned image cleanup completed",
			zap.String("tenant", tenant.String()),
			zap.Int("deleted", deleted))
	}
	return deleted, nil
}
