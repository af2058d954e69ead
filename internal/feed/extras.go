package feed

import "strings"

const (
	extrasKey      = "Extras"
	extrasNameKey  = "Name"
	extrasValueKey = "Value"
)

// Extras is the optional attribute bag of an item, keyed by lowercased name.
// The feed encodes it as two parallel lists (names and values); it is folded
// into a map once per item.
type Extras map[string]string

// NewExtras builds the attribute bag for item. Names pair with values by
// position, only up to the shorter of the two lists, and the first occurrence
// of a name wins.
func NewExtras(item Item) Extras {
	extras := Extras{}
	if item == nil {
		return extras
	}
	bag, ok := item[extrasKey].(map[string]any)
	if !ok {
		return extras
	}

	names := asList(bag[extrasNameKey])
	values := asList(bag[extrasValueKey])

	n := min(len(names), len(values))
	for i := 0; i < n; i++ {
		name := strings.ToLower(Text(names[i]))
		if _, seen := extras[name]; seen {
			continue
		}
		extras[name] = Text(values[i])
	}
	return extras
}

// Get returns the value for name, matched case-insensitively
func (e Extras) Get(name string) string {
	return e[strings.ToLower(name)]
}

// ExtractExtra looks up a single extra attribute on item.
func ExtractExtra(item Item, name string) string {
	return NewExtras(item).Get(name)
}

// asList coerces a bare value into a one-element list. Missing values
// become an empty list.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
