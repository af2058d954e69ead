// Package xml decodes product feed documents into nested maps.
package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/kosarica/catalog-service/internal/parsers/charset"
)

// TextKey holds the character data of an element that also has attributes or
// children, and of text-only elements.
const TextKey = "#text"

// DefaultAttributePrefix is prepended to attribute names
const DefaultAttributePrefix = "@_"

// ErrPathNotFound is returned when an items path does not resolve
var ErrPathNotFound = errors.New("items path not found")

// Options configures the decoder
type Options struct {
	AttributePrefix string
	// Encoding overrides detection when set
	Encoding charset.Encoding
}

// Parser decodes XML documents into map[string]any trees. Repeated child
// elements become []any, a single child stays a map.
type Parser struct {
	options Options
}

// NewParser creates a new XML parser with the given options
func NewParser(options Options) *Parser {
	if options.AttributePrefix == "" {
		options.AttributePrefix = DefaultAttributePrefix
	}
	return &Parser{options: options}
}

// Decode parses content into a map keyed by the root element name
func (p *Parser) Decode(content []byte) (map[string]any, error) {
	decoded, err := p.decodeContent(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	decoder := xml.NewDecoder(bytes.NewReader(decoded))
	decoder.Strict = false
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	doc, err := p.decodeElement(decoder, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	if len(doc) == 0 {
		return nil, errors.New("failed to parse XML: document has no root element")
	}
	return doc, nil
}

// ItemsAt decodes content and returns the elements found at the dot separated
// path, e.g. "productFeed.product".
func (p *Parser) ItemsAt(content []byte, path string) ([]map[string]any, error) {
	doc, err := p.Decode(content)
	if err != nil {
		return nil, err
	}
	return ItemsAtPath(doc, path)
}

// ItemsAt decodes content with the default options
func ItemsAt(content []byte, path string) ([]map[string]any, error) {
	return NewParser(Options{}).ItemsAt(content, path)
}

func (p *Parser) decodeContent(content []byte) ([]byte, error) {
	if p.options.Encoding != "" {
		return charset.Decode(content, p.options.Encoding)
	}
	out, _, err := charset.ToUTF8(content)
	return out, err
}

// decodeElement recursively decodes XML elements into maps
func (p *Parser) decodeElement(decoder *xml.Decoder, start *xml.StartElement) (map[string]any, error) {
	result := make(map[string]any)

	if start != nil {
		for _, attr := range start.Attr {
			result[p.options.AttributePrefix+attr.Name.Local] = attr.Value
		}
	}

	var text strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			if start != nil {
				return nil, fmt.Errorf("unexpected end of document inside <%s>", start.Name.Local)
			}
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			child, err := p.decodeElement(decoder, &t)
			if err != nil {
				return nil, err
			}
			appendChild(result, t.Name.Local, child)

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			setText(result, text.String())
			return result, nil
		}
	}

	return result, nil
}

func appendChild(parent map[string]any, name string, child map[string]any) {
	existing, ok := parent[name]
	if !ok {
		parent[name] = child
		return
	}
	switch v := existing.(type) {
	case []any:
		parent[name] = append(v, child)
	default:
		parent[name] = []any{v, child}
	}
}

func setText(m map[string]any, raw string) {
	if text := strings.TrimSpace(raw); text != "" {
		m[TextKey] = text
	}
}

// ItemsAtPath navigates doc along path and returns the items there. Segments
// match case-insensitively when there is no exact match. A single element is
// returned as a one-item slice.
func ItemsAtPath(doc map[string]any, path string) ([]map[string]any, error) {
	parts := strings.Split(path, ".")

	current := doc
	for i, part := range parts {
		value, ok := lookupKey(current, part)
		if !ok {
			return nil, fmt.Errorf("%w: segment %q of %q", ErrPathNotFound, part, path)
		}

		if i == len(parts)-1 {
			return toItemSlice(value)
		}

		switch v := value.(type) {
		case map[string]any:
			current = v
		case []any:
			// repeated container: descend into the first one
			first, ok := lo.First(v)
			m, isMap := first.(map[string]any)
			if !ok || !isMap {
				return nil, fmt.Errorf("%w: cannot navigate through %q", ErrPathNotFound, part)
			}
			current = m
		default:
			return nil, fmt.Errorf("%w: cannot navigate through %T at %q", ErrPathNotFound, value, part)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
}

func lookupKey(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// toItemSlice converts a value to a slice of maps, dropping non-map entries
func toItemSlice(value any) ([]map[string]any, error) {
	switch v := value.(type) {
	case []any:
		return lo.FilterMap(v, func(item any, _ int) (map[string]any, bool) {
			m, ok := item.(map[string]any)
			return m, ok
		}), nil
	case map[string]any:
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("expected element list, got %T", value)
	}
}
