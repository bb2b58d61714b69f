package store

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

var (
	bucketImages     = []byte("images")
	bucketImageMeta  = []byte("image_meta")
	bucketCreatedIdx = []byte("created_idx")
)

// Media is the blob store for uploaded images, keyed by an opaque imageRef.
// Each entry carries the payload plus mime/size/dimensions/createdAt metadata
// and a secondary index on createdAt. Reads degrade to not-found on any
// failure; writes fail explicitly when the store is unavailable; deletes are
// best-effort.
type Media struct {
	db *bolt.DB
}

func OpenMedia(path string) (*Media, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open media store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketImages, bucketImageMeta, bucketCreatedIdx} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init media store buckets")
	}
	return &Media{db: db}, nil
}

func (m *Media) Close() error {
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// Put inserts or replaces the blob under imageRef. Missing metadata fields
// are filled from the payload.
func (m *Media) Put(imageRef string, data []byte, meta domain.ImageMeta) error {
	if m.db == nil {
		return ErrStorageUnavailable
	}
	if meta.Mime == "" {
		meta.Mime = "image/jpeg"
	}
	if meta.Size == 0 {
		meta.Size = len(data)
	}
	if meta.CreatedAt == 0 {
		meta.CreatedAt = time.Now().UnixMilli()
	}

	metaData, err := json.Marshal(meta)
	if err != nil {
		return errors.Wrap(err, "encode image metadata")
	}

	err = m.db.Update(func(tx *bolt.Tx) error {
		// Replacing an entry re-indexes it under the new createdAt.
		if old := tx.Bucket(bucketImageMeta).Get([]byte(imageRef)); old != nil {
			var oldMeta domain.ImageMeta
			if json.Unmarshal(old, &oldMeta) == nil {
				_ = tx.Bucket(bucketCreatedIdx).Delete(createdIdxKey(oldMeta.CreatedAt, imageRef))
			}
		}
		if err := tx.Bucket(bucketImages).Put([]byte(imageRef), data); err != nil {
			return err
		}
		if err := tx.Bucket(bucketImageMeta).Put([]byte(imageRef), metaData); err != nil {
			return err
		}
		return tx.Bucket(bucketCreatedIdx).Put(createdIdxKey(meta.CreatedAt, imageRef), []byte(imageRef))
	})
	if err != nil {
		return errors.Wrapf(err, "store image %s", imageRef)
	}

	zap.L().Debug("image stored",
		zap.String("imageRef", imageRef),
		zap.Int("size", meta.Size),
		zap.String("mime", meta.Mime))
	return nil
}

// Get returns the blob for imageRef. Absence and read failures are both
// reported as not-found; failures are additionally logged.
func (m *Media) Get(imageRef string) (*domain.StoredImage, bool) {
	if m.db == nil {
		zap.L().Warn("media store read on closed store", zap.String("imageRef", imageRef))
		return nil, false
	}
	var img *domain.StoredImage
	err := m.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketImages).Get([]byte(imageRef))
		if data == nil {
			return nil
		}
		entry := &domain.StoredImage{Data: append([]byte(nil), data...)}
		if metaData := tx.Bucket(bucketImageMeta).Get([]byte(imageRef)); metaData != nil {
			if err := json.Unmarshal(metaData, &entry.ImageMeta); err != nil {
				zap.L().Warn("image metadata undecodable", zap.String("imageRef", imageRef), zap.Error(err))
			}
		}
		if entry.Mime == "" {
			entry.Mime = "image/jpeg"
		}
		if entry.Size == 0 {
			entry.Size = len(entry.Data)
		}
		img = entry
		return nil
	})
	if err != nil {
		zap.L().Error("media store read failed", zap.String("imageRef", imageRef), zap.Error(err))
		return nil, false
	}
	if img == nil {
		return nil, false
	}
	return img, true
}

// Delete removes the blob and its index entries. Failures are logged, never
// propagated; a failed delete must not block unrelated flows.
func (m *Media) Delete(imageRef string) {
	if m.db == nil {
		return
	}
	err := m.db.Update(func(tx *bolt.Tx) error {
		return deleteImageTx(tx, imageRef)
	})
	if err != nil {
		zap.L().Error("media store delete failed", zap.String("imageRef", imageRef), zap.Error(err))
		return
	}
	zap.L().Debug("image deleted", zap.String("imageRef", imageRef))
}

func deleteImageTx(tx *bolt.Tx, imageRef string) error {
	if metaData := tx.Bucket(bucketImageMeta).Get([]byte(imageRef)); metaData != nil {
		var meta domain.ImageMeta
		if json.Unmarshal(metaData, &meta) == nil {
			_ = tx.Bucket(bucketCreatedIdx).Delete(createdIdxKey(meta.CreatedAt, imageRef))
		}
	}
	if err := tx.Bucket(bucketImages).Delete([]byte(imageRef)); err != nil {
		return err
	}
	return tx.Bucket(bucketImageMeta).Delete([]byte(imageRef))
}

// Keys returns every stored imageRef with the given prefix.
func (m *Media) Keys(prefix string) []string {
	if m.db == nil {
		return nil
	}
	var keys []string
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketImages).ForEach(func(k, _ []byte) error {
			if strings.HasPrefix(string(k), prefix) {
				keys = append(keys, string(k))
			}
			return nil
		})
	})
	if err != nil {
		zap.L().Error("media store scan failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}
	return keys
}

// createdIdxKey orders index entries by creation time; the ref suffix keeps
// same-instant entries distinct.
func createdIdxKey(createdAt int64, imageRef string) []byte {
	key := make([]byte, 8+len(imageRef))
	binary.BigEndian.PutUint64(key, uint64(createdAt))
	copy(key[8:], imageRef)
	return key
}
