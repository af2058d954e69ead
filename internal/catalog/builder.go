// Package catalog assembles canonical product variant records from feed items.
package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kosarica/catalog-service/internal/feed"
	"github.com/kosarica/catalog-service/internal/naming"
	"github.com/kosarica/catalog-service/internal/types"
)

const (
	// DefaultCurrency is used when neither the feed nor the config names one
	DefaultCurrency = "NOK"
	// UnknownAvailability is stored when the feed has no stock information
	UnknownAvailability = "unknown"
)

// Input holds the extracted, still untyped fields of one feed item
type Input struct {
	SKU                       string
	RawName                   string
	Brand                     string
	Description               string
	RawCategory               string
	ModelName                 string
	Price                     string
	OriginalPrice             string
	Currency                  string
	Availability              string
	ProductURL                string
	ImageURL                  string
	TrackingURL               string
	EAN                       string
	ManufacturerArticleNumber string
	Color                     string
	Size                      string
	Gender                    string
	Condition                 string
	ItemGroupID               string
	ShippingWeight            string
}

// FromItem extracts every record field from a decoded feed item and derives
// the model name with cleaner.
func FromItem(item feed.Item, cleaner *naming.Cleaner) Input {
	extras := feed.NewExtras(item)

	in := Input{
		SKU:                       feed.Get(item, "SKU"),
		RawName:                   feed.Get(item, "Name"),
		Brand:                     feed.Get(item, "Brand"),
		Description:               feed.Get(item, "Description"),
		RawCategory:               feed.Get(item, "Category"),
		Price:                     feed.Get(item, "Price"),
		OriginalPrice:             feed.Get(item, "OriginalPrice"),
		Currency:                  feed.Get(item, "Currency"),
		Availability:              feed.Get(item, "Instock"),
		ProductURL:                feed.Get(item, "ProductUrl"),
		ImageURL:                  feed.Get(item, "ImageUrl"),
		TrackingURL:               feed.Get(item, "TrackingUrl"),
		EAN:                       feed.Get(item, "Ean"),
		ManufacturerArticleNumber: feed.Get(item, "ManufacturerArticleNumber"),
		Color:                     extras.Get("color"),
		Size:                      extras.Get("size"),
		Gender:                    extras.Get("gender"),
		Condition:                 extras.Get("condition"),
		ItemGroupID:               extras.Get("item_group_id"),
		ShippingWeight:            extras.Get("shipping_weight"),
	}
	in.ModelName = cleaner.Clean(in.RawName, in.Description, in.Brand)
	return in
}

// Refs are the identifiers resolved outside of the item itself
type Refs struct {
	SourceFeedID     string
	SourceRetailerID string
	SubcategoryID    *string
}

// Builder turns extracted fields into records
type Builder struct {
	DefaultCurrency string
	Now             func() time.Time
}

// NewBuilder creates a builder stamping records with the wall clock
func NewBuilder(defaultCurrency string) *Builder {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	return &Builder{DefaultCurrency: defaultCurrency, Now: time.Now}
}

// Build assembles a record. last_seen_at is the processing time, never a
// timestamp taken from the feed.
func (b *Builder) Build(in Input, refs Refs) types.ProductVariantRecord {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	return types.ProductVariantRecord{
		SKU:                       in.SKU,
		ModelName:                 in.ModelName,
		Brand:                     in.Brand,
		Price:                     ParsePrice(in.Price),
		OriginalPrice:             ParseOptionalPrice(in.OriginalPrice),
		Currency:                  fallback(in.Currency, b.DefaultCurrency),
		Availability:              fallback(in.Availability, UnknownAvailability),
		ProductURL:                in.ProductURL,
		ImageURL:                  in.ImageURL,
		TrackingURL:               in.TrackingURL,
		EAN:                       in.EAN,
		ManufacturerArticleNumber: in.ManufacturerArticleNumber,
		Color:                     in.Color,
		Gender:                    in.Gender,
		Condition:                 in.Condition,
		ItemGroupID:               in.ItemGroupID,
		ShippingWeight:            in.ShippingWeight,
		Size:                      in.Size,
		LastSeenAt:                now().UTC(),
		Description:               in.Description,
		RawName:                   in.RawName,
		RawCategory:               in.RawCategory,
		SourceFeedID:              refs.SourceFeedID,
		SourceRetailerID:          refs.SourceRetailerID,
		SubcategoryID:             refs.SubcategoryID,
	}
}

// ParsePrice parses a price with '.' as the only decimal separator.
// Anything unparsable, negative or non-finite is 0.
func ParsePrice(s string) float64 {
	v, ok := parseAmount(s)
	if !ok {
		return 0
	}
	return v
}

// ParseOptionalPrice is like ParsePrice but reports a missing or zero price
// as nil rather than 0.
func ParseOptionalPrice(s string) *float64 {
	v, ok := parseAmount(s)
	if !ok || v == 0 {
		return nil
	}
	return &v
}

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
