// Package charset normalizes feed bytes to UTF-8 before XML decoding.
package charset

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
	EncodingWindows1250 Encoding = "windows-1250"
	EncodingISO88592    Encoding = "iso-8859-2"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

var declarationRe = regexp.MustCompile(`^\s*<\?xml[^?]*encoding=["']([^"']+)["'][^?]*\?>`)

// sniffLen bounds how far into the document the declaration is searched
const sniffLen = 256

// Normalize returns the encoding label for a declared charset name
func Normalize(name string) Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return EncodingUTF8
	case "windows-1252", "cp1252":
		return EncodingWindows1252
	case "iso-8859-1", "latin1", "latin-1", "iso8859-1":
		return EncodingISO88591
	case "windows-1250", "cp1250":
		return EncodingWindows1250
	case "iso-8859-2", "latin2":
		return EncodingISO88592
	case "utf-16le":
		return EncodingUTF16LE
	case "utf-16be", "utf-16":
		return EncodingUTF16BE
	default:
		return Encoding(strings.ToLower(strings.TrimSpace(name)))
	}
}

// DeclaredEncoding extracts the encoding from the XML declaration, or "" when
// there is none.
func DeclaredEncoding(data []byte) Encoding {
	match := declarationRe.FindSubmatch(data[:min(sniffLen, len(data))])
	if len(match) < 2 {
		return ""
	}
	return Normalize(string(match[1]))
}

// DetectEncoding detects the encoding of a byte buffer. A BOM wins, then the
// XML declaration, then UTF-8 validity. Invalid UTF-8 without any hint is
// treated as windows-1252.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	}

	if declared := DeclaredEncoding(data); declared != "" {
		return declared
	}

	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts data from enc to UTF-8 and strips any byte order mark.
// Data that is already valid UTF-8 is returned as-is for 8-bit encodings,
// since feeds frequently declare latin-1 while shipping UTF-8.
func Decode(data []byte, enc Encoding) ([]byte, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		return data[len(bomUTF8):], nil
	}

	if enc == "" || enc == EncodingUTF8 {
		if utf8.Valid(data) {
			return data, nil
		}
		enc = EncodingWindows1252
	}

	decoder, err := lookup(enc)
	if err != nil {
		return nil, err
	}

	if !isUTF16(enc) && utf8.Valid(data) {
		return data, nil
	}

	out, err := decoder.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return out, nil
}

// ToUTF8 detects the encoding of data and converts it
func ToUTF8(data []byte) ([]byte, Encoding, error) {
	enc := DetectEncoding(data)
	out, err := Decode(data, enc)
	if err != nil {
		return nil, enc, err
	}
	return out, enc, nil
}

func lookup(enc Encoding) (encoding.Encoding, error) {
	switch enc {
	case EncodingWindows1252:
		return charmap.Windows1252, nil
	case EncodingISO88591:
		return charmap.ISO8859_1, nil
	case EncodingWindows1250:
		return charmap.Windows1250, nil
	case EncodingISO88592:
		return charmap.ISO8859_2, nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	}

	e, err := htmlindex.Get(string(enc))
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
	}
	return e, nil
}

func isUTF16(enc Encoding) bool {
	return enc == EncodingUTF16LE || enc == EncodingUTF16BE
}
