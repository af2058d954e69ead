package types

import (
	"encoding/json"
	"time"
)

// ProductVariantRecord is the canonical product variant written to the store.
// JSON field names match the product_variants columns.
type ProductVariantRecord struct {
	SKU                       string    `json:"sku"`
	ModelName                 string    `json:"model_name"`
	Brand                     string    `json:"brand"`
	Price                     float64   `json:"price"`
	OriginalPrice             *float64  `json:"original_price"`
	Currency                  string    `json:"currency"`
	Availability              string    `json:"availability"`
	ProductURL                string    `json:"product_url"`
	ImageURL                  string    `json:"image_url"`
	TrackingURL               string    `json:"tracking_url"`
	EAN                       string    `json:"ean"`
	ManufacturerArticleNumber string    `json:"manufacturer_article_number"`
	Color                     string    `json:"color"`
	Gender                    string    `json:"gender"`
	Condition                 string    `json:"condition"`
	ItemGroupID               string    `json:"item_group_id"`
	ShippingWeight            string    `json:"shipping_weight"`
	Size                      string    `json:"size"`
	LastSeenAt                time.Time `json:"last_seen_at"`
	Description               string    `json:"description"`
	RawName                   string    `json:"raw_name"`
	RawCategory               string    `json:"raw_category"`
	SourceFeedID              string    `json:"source_feed_id"`
	SourceRetailerID          string    `json:"source_retailer_id"`
	SubcategoryID             *string   `json:"subcategory_id"`
}

// NaturalKey identifies a variant across runs
type NaturalKey struct {
	SKU          string
	SourceFeedID string
}

// Key returns the record's natural key
func (r ProductVariantRecord) Key() NaturalKey {
	return NaturalKey{SKU: r.SKU, SourceFeedID: r.SourceFeedID}
}

// MarshalJSON renders last_seen_at as an ISO-8601 UTC timestamp with milliseconds
func (r ProductVariantRecord) MarshalJSON() ([]byte, error) {
	type plain ProductVariantRecord
	return json.Marshal(struct {
		plain
		LastSeenAt string `json:"last_seen_at"`
	}{
		plain:      plain(r),
		LastSeenAt: r.LastSeenAt.UTC().Format(TimestampLayout),
	})
}

// TimestampLayout is the wire format of last_seen_at
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to the given float
func Float64Ptr(f float64) *float64 {
	return &f
}
