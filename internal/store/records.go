package store

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind names a structured record collection. One bucket per kind, one entry
// per tenant holding the whole JSON-encoded collection.
type Kind string

const (
	KindProducts Kind = "products"
	KindCombos   Kind = "combos"
	KindOrders   Kind = "orders"
	KindClients  Kind = "clients"
	KindSettings Kind = "settings"
)

// Kinds lists every collection, in backup-document order.
var Kinds = []Kind{KindProducts, KindCombos, KindOrders, KindClients, KindSettings}

// MaxRecordBytes is the conservative ceiling for the whole record store,
// measured as UTF-16 code units (two bytes per stored byte) to stay
// compatible with the original storefront's estimate.
const MaxRecordBytes = 4 * 1024 * 1024

// Records is the structured record store. Reads never fail: a missing or
// undecodable entry degrades to the zero collection and is logged. Writes
// are sanitized, quota-checked before any byte is written, and replace the
// whole entry in one transaction.
type Records struct {
	db *bolt.DB
}

func OpenRecords(path string) (*Records, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open record store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, kind := range Kinds {
			if _, err := tx.CreateBucketIfNotExists([]byte(kind)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init record store buckets")
	}
	return &Records{db: db}, nil
}

func (r *Records) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// get returns the raw entry for (kind, tenant), or nil when absent or the
// store cannot be read.
func (r *Records) get(kind Kind, tenant domain.Tenant) []byte {
	if r.db == nil {
		zap.L().Warn("record store read on closed store", zap.String("kind", string(kind)))
		return nil
	}
	var out []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(kind))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(tenant)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("record store read failed",
			zap.String("kind", string(kind)),
			zap.String("tenant", tenant.String()),
			zap.Error(err))
		return nil
	}
	return out
}

// put replaces the entry for (kind, tenant). The projected size of the whole
// store (everything except the entry being replaced, plus the incoming
// payload) is checked against MaxRecordBytes inside the same transaction, so
// an oversized save never partially writes.
func (r *Records) put(kind Kind, tenant domain.Tenant, data []byte) error {
	if r.db == nil {
		return ErrStorageUnavailable
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		current := usageExcluding(tx, kind, tenant)
		incoming := utf16Bytes(len(tenant), len(data))
		if current+incoming > MaxRecordBytes {
			return quotaError(current, incoming, MaxRecordBytes)
		}
		b, err := tx.CreateBucketIfNotExists([]byte(kind))
		if err != nil {
			return errors.Wrap(err, "open bucket")
		}
		return errors.Wrap(b.Put([]byte(tenant), data), "write record entry")
	})
}

func (r *Records) delete(kind Kind, tenant domain.Tenant) error {
	if r.db == nil {
		return ErrStorageUnavailable
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(kind))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(tenant))
	})
}

// EstimateUsage returns the current store size under the UTF-16 estimate.
func (r *Records) EstimateUsage() int64 {
	if r.db == nil {
		return 0
	}
	var total int64
	_ = r.db.View(func(tx *bolt.Tx) error {
		total = usageExcluding(tx, "", "")
		return nil
	})
	return total
}

func usageExcluding(tx *bolt.Tx, skipKind Kind, skipTenant domain.Tenant) int64 {
	var total int64
	for _, kind := range Kinds {
		b := tx.Bucket([]byte(kind))
		if b == nil {
			continue
		}
		_ = b.ForEach(func(k, v []byte) error {
			if kind == skipKind && string(k) == string(skipTenant) {
				return nil
			}
			total += utf16Bytes(len(k), len(v))
			return nil
		})
	}
	return total
}

func utf16Bytes(keyLen, valLen int) int64 {
	return int64(keyLen+valLen) * 2
}

// decode unmarshals into out; on failure it logs and leaves out untouched so
// callers fall back to the zero collection.
func decode(kind Kind, tenant domain.Tenant, data []byte, out interface{}) bool {
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		zap.L().Error("record entry is not valid JSON, treating as empty",
			zap.String("kind", string(kind)),
			zap.String("tenant", tenant.String()),
			zap.Error(err))
		return false
	}
	return true
}

func (r *Records) Products(tenant domain.Tenant) []domain.Product {
	var out []domain.Product
	decode(KindProducts, tenant, r.get(KindProducts, tenant), &out)
	return out
}

// SaveProducts sanitizes and persists the tenant's product list. Inline image
// payloads never reach disk through this path.
func (r *Records) SaveProducts(tenant domain.Tenant, products []domain.Product) error {
	data, err := json.Marshal(SanitizeProducts(products))
	if err != nil {
		return errors.Wrap(err, "encode products")
	}
	return r.put(KindProducts, tenant, data)
}

// SanitizeProducts returns a copy of the list with every inline-encoded image
// field cleared. It is the explicit serialization-boundary guard against blob
// data leaking back into the record store.
func SanitizeProducts(products []domain.Product) []domain.Product {
	clean := make([]domain.Product, len(products))
	for i, p := range products {
		p.Image = ""
		p.ImageBase64 = ""
		clean[i] = p
	}
	return clean
}

func (r *Records) Combos(tenant domain.Tenant) []domain.Combo {
	var out []domain.Combo
	decode(KindCombos, tenant, r.get(KindCombos, tenant), &out)
	return out
}

func (r *Records) SaveCombos(tenant domain.Tenant, combos []domain.Combo) error {
	data, err := json.Marshal(combos)
	if err != nil {
		return errors.Wrap(err, "encode combos")
	}
	return r.put(KindCombos, tenant, data)
}

func (r *Records) Orders(tenant domain.Tenant) []domain.Order {
	var out []domain.Order
	decode(KindOrders, tenant, r.get(KindOrders, tenant), &out)
	return out
}

func (r *Records) SaveOrders(tenant domain.Tenant, orders []domain.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return errors.Wrap(err, "encode orders")
	}
	return r.put(KindOrders, tenant, data)
}

func (r *Records) Customers(tenant domain.Tenant) []domain.Customer {
	var out []domain.Customer
	decode(KindClients, tenant, r.get(KindClients, tenant), &out)
	return out
}

func (r *Records) SaveCustomers(tenant domain.Tenant, customers []domain.Customer) error {
	data, err := json.Marshal(customers)
	if err != nil {
		return errors.Wrap(err, "encode customers")
	}
	return r.put(KindClients, tenant, data)
}

// Settings returns the tenant's settings and whether a stored entry existed.
func (r *Records) Settings(tenant domain.Tenant) (domain.StoreSettings, bool) {
	out := domain.DefaultSettings(tenant)
	found := decode(KindSettings, tenant, r.get(KindSettings, tenant), &out)
	out.TenantID = tenant
	return out, found
}

func (r *Records) SaveSettings(tenant domain.Tenant, settings domain.StoreSettings) error {
	settings.TenantID = tenant
	data, err := json.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}
	return r.put(KindSettings, tenant, data)
}

// Clear removes every collection for the tenant.
func (r *Records) Clear(tenant domain.Tenant) error {
	for _, kind := range Kinds {
		if err := r.delete(kind, tenant); err != nil {
			return err
		}
	}
	return nil
}
