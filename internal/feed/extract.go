// Package feed reads fields out of decoded catalog feed items.
//
// A decoded item is the loosely typed tree produced by the XML parser. The
// upstream feed has no schema guarantees, so every accessor here degrades to
// an empty string instead of failing.
package feed

import (
	"strconv"
	"strings"
)

// Item is one decoded product element
type Item = map[string]any

// textKeys are the keys a wrapped text node may carry its payload under
var textKeys = []string{"#text", "_text"}

// Text normalizes a single feed value to a trimmed string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		payload, ok := wrappedText(t)
		if !ok {
			return ""
		}
		return Text(payload)
	default:
		return ""
	}
}

// Get returns the normalized value of field in item. Lists contribute their
// first element only.
func Get(item Item, field string) string {
	if item == nil {
		return ""
	}
	v, ok := item[field]
	if !ok || v == nil {
		return ""
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		return firstText(list[0])
	}
	return Text(v)
}

// firstText normalizes the first element of a list, which may itself be a
// scalar or a wrapped text node but never another list.
func firstText(v any) string {
	if _, ok := v.([]any); ok {
		return ""
	}
	return Text(v)
}

// wrappedText returns the payload of a text node container, if any
func wrappedText(m map[string]any) (any, bool) {
	for _, key := range textKeys {
		if payload, ok := m[key]; ok {
			if _, nested := payload.(map[string]any); nested {
				return nil, false
			}
			return payload, true
		}
	}
	return nil, false
}
