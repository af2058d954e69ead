// Package naming derives a bare model name from free-text product names.
package naming

import (
	"regexp"
	"strings"
)

// DefaultGenderTokens are stripped as whole words. An apostrophe in a token is
// optional in the input, so "men's" also strips "mens". "dam" and "herre" are
// the Norwegian market's woman/man abbreviations.
var DefaultGenderTokens = []string{
	"men's", "women's", "w's", "m's", "male", "female", "unisex", "dam", "herre",
}

var (
	sizeSuffixRe    = regexp.MustCompile(`(?i)\s?(EU\s?\d+|UK\s?\d+(?:[,.]\d+)?|[A-Z]/[A-Z]|XXL|XL|L|M|S|XS|One Size)$`)
	numericSuffixRe = regexp.MustCompile(`\b([1-4]?[0-9])([.,]\d+)?\b$`)
	whitespaceRe    = regexp.MustCompile(`[\s\p{Zs}]{2,}`)
)

// Cleaner strips brand, gender and size residue from product names.
// Steps run in a fixed order and each works on the previous step's output;
// a single-letter size such as "M" can be eaten by an earlier step.
type Cleaner struct {
	genderRe *regexp.Regexp
}

// NewCleaner builds a cleaner for the given gender token set. A nil or empty
// set falls back to DefaultGenderTokens.
func NewCleaner(genderTokens []string) *Cleaner {
	if len(genderTokens) == 0 {
		genderTokens = DefaultGenderTokens
	}
	return &Cleaner{genderRe: genderPattern(genderTokens)}
}

var defaultCleaner = NewCleaner(nil)

// CleanModelName cleans a name with the default gender tokens.
func CleanModelName(rawName, description, brand string) string {
	return defaultCleaner.Clean(rawName, description, brand)
}

// Clean returns the model name for a product. The description is preferred
// over the raw name. An empty result is returned as is.
func (c *Cleaner) Clean(rawName, description, brand string) string {
	name := description
	if name == "" {
		name = rawName
	}

	name = stripBrand(name, brand)
	name = c.genderRe.ReplaceAllString(name, "")
	name = sizeSuffixRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(numericSuffixRe.ReplaceAllString(name, ""))
	name = strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))

	return name
}

// stripBrand removes a leading brand, an optional dash and surrounding spaces
func stripBrand(name, brand string) string {
	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(brand) + `\s*-?\s*`)
	return strings.TrimSpace(re.ReplaceAllString(name, ""))
}

func genderPattern(tokens []string) *regexp.Regexp {
	alts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(tok), "'", "'?"))
	}
	if len(alts) == 0 {
		// matches nothing
		return regexp.MustCompile(`\b\B`)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)\b`)
}
