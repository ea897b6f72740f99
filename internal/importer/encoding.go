package importer

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type candidate struct {
	name   string
	decode func([]byte) (string, bool)
}

// candidates are tried in this order; the first that decodes wins.
var candidates = []candidate{
	{"utf-8", decodeUTF8},
	{"latin-1", decodeCharmap(charmap.ISO8859_1, isC1Control)},
	{"iso-8859-1", decodeCharmap(charmap.ISO8859_1, isC1Control)},
	{"windows-1252", decodeCharmap(charmap.Windows1252, isUndefinedCP1252)},
	{"cp1252", decodeCharmap(charmap.Windows1252, isUndefinedCP1252)},
}

// Encodings returns the candidate encoding names in resolution order.
func Encodings() []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}

// Decode returns the text of data under the first candidate encoding that
// accepts it, with that encoding's name.
func Decode(name string, data []byte) (string, string, error) {
	for _, c := range candidates {
		if text, ok := c.decode(data); ok {
			return text, c.name, nil
		}
	}
	return "", "", &DecodeError{File: name, Tried: Encodings()}
}

func decodeUTF8(b []byte) (string, bool) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// decodeCharmap rejects input containing a byte for which reject is true.
func decodeCharmap(cm *charmap.Charmap, reject func(byte) bool) func([]byte) (string, bool) {
	return func(b []byte) (string, bool) {
		for _, c := range b {
			if reject(c) {
				return "", false
			}
		}
		out, _, err := transform.Bytes(cm.NewDecoder(), b)
		if err != nil {
			return "", false
		}
		return string(out), true
	}
}

// Statement text never carries C1 controls, so their presence means the bytes
// belong to a different single-byte code page.
func isC1Control(c byte) bool {
	return c >= 0x80 && c <= 0x9F
}

func isUndefinedCP1252(c byte) bool {
	switch c {
	case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
		return true
	}
	return false
}
