// Package backup implements the tenant export/import contract: one JSON
// document with the five structured collections and no blob payloads.
package backup

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrTenantMismatch  = errors.New("backup belongs to a different store")
	ErrInvalidDocument = errors.New("invalid backup document")
)

// Collections holds the five record lists. Settings stays loosely typed so
// documents written by older releases still import.
type Collections struct {
	Products []domain.Product       `json:"products"`
	Combos   []domain.Combo         `json:"combos"`
	Orders   []domain.Order         `json:"orders"`
	Clients  []domain.Customer      `json:"clients"`
	Settings map[string]interface{} `json:"settings"`
}

// Document is the export/import unit for one tenant.
type Document struct {
	StoreID   domain.Tenant `json:"storeId"`
	Timestamp time.Time     `json:"timestamp"`
	Data      Collections   `json:"data"`
}

// Export snapshots every collection of the tenant. Image blobs are not
// included; only their references travel with the products.
func Export(st *store.Store, tenant domain.Tenant) (*Document, error) {
	settings, _ := st.Records.Settings(tenant)
	settingsMap := make(map[string]interface{})
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, errors.Wrap(err, "encode settings")
	}
	if err := json.Unmarshal(raw, &settingsMap); err != nil {
		return nil, errors.Wrap(err, "flatten settings")
	}

	return &Document{
		StoreID:   tenant,
		Timestamp: time.Now(),
		Data: Collections{
			Products: st.Records.Products(tenant),
			Combos:   st.Records.Combos(tenant),
			Orders:   st.Records.Orders(tenant),
			Clients:  st.Records.Customers(tenant),
			Settings: settingsMap,
		},
	}, nil
}

// Import replaces the tenant's collections with the document's contents. A
// document for another store is rejected before anything is written.
func Import(st *store.Store, tenant domain.Tenant, raw []byte) error {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(ErrInvalidDocument, err.Error())
	}
	if doc.StoreID != tenant {
		return ErrTenantMismatch
	}

	if err := st.Records.SaveProducts(tenant, doc.Data.Products); err != nil {
		return err
	}
	if err := st.Records.SaveCombos(tenant, doc.Data.Combos); err != nil {
		return err
	}
	if err := st.Records.SaveOrders(tenant, doc.Data.Orders); err != nil {
		return err
	}
	if err := st.Records.SaveCustomers(tenant, doc.Data.Clients); err != nil {
		return err
	}

	if len(doc.Data.Settings) > 0 {
		settings, err := decodeSettings(tenant, doc.Data.Settings)
		if err != nil {
			return err
		}
		if err := st.Records.SaveSettings(tenant, settings); err != nil {
			return err
		}
	}
	return nil
}

// decodeSettings tolerates stringly-typed numbers from hand-edited backups.
func decodeSettings(tenant domain.Tenant, raw map[string]interface{}) (domain.StoreSettings, error) {
	settings := domain.DefaultSettings(tenant)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &settings,
	})
	if err != nil {
		return settings, errors.Wrap(err, "build settings decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return settings, errors.Wrap(ErrInvalidDocument, err.Error())
	}
	settings.TenantID = tenant
	return settings, nil
}
