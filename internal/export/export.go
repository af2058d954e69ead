// Package export writes normalized variant records to files for inspection.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kosarica/catalog-service/internal/types"
)

// Format is an output file format
type Format string

const (
	FormatXLSX  Format = "xlsx"
	FormatJSONL Format = "jsonl"
)

// SheetName is the worksheet holding the records
const SheetName = "Variants"

// Columns is the header row of the spreadsheet, in column order
var Columns = []string{
	"sku", "model_name", "brand", "price", "original_price", "currency",
	"availability", "size", "color", "gender", "condition", "item_group_id",
	"shipping_weight", "ean", "manufacturer_article_number", "raw_name",
	"raw_category", "subcategory_id", "product_url", "image_url", "tracking_url",
	"source_feed_id", "source_retailer_id", "last_seen_at",
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use .xlsx or .jsonl)", filepath.Ext(path))
	}
}

// WriteFile writes records to path in the format implied by its extension
func WriteFile(path string, records []types.ProductVariantRecord) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, format, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes records to w
func Write(w io.Writer, format Format, records []types.ProductVariantRecord) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, records)
	case FormatJSONL:
		return WriteJSONL(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteJSONL writes one JSON object per record
func WriteJSONL(w io.Writer, records []types.ProductVariantRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode %s: %w", rec.SKU, err)
		}
	}
	return nil
}

// WriteXLSX writes a workbook with a header row and one row per record
func WriteXLSX(w io.Writer, records []types.ProductVariantRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]any, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row(rec)); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", rec.SKU, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func row(rec types.ProductVariantRecord) []any {
	var originalPrice any
	if rec.OriginalPrice != nil {
		originalPrice = *rec.OriginalPrice
	}
	var subcategoryID any
	if rec.SubcategoryID != nil {
		subcategoryID = *rec.SubcategoryID
	}

	return []any{
		rec.SKU, rec.ModelName, rec.Brand, rec.Price, originalPrice, rec.Currency,
		rec.Availability, rec.Size, rec.Color, rec.Gender, rec.Condition, rec.ItemGroupID,
		rec.ShippingWeight, rec.EAN, rec.ManufacturerArticleNumber, rec.RawName,
		rec.RawCategory, subcategoryID, rec.ProductURL, rec.ImageURL, rec.TrackingURL,
		rec.SourceFeedID, rec.SourceRetailerID, rec.LastSeenAt.UTC().Format(types.TimestampLayout),
	}
}
