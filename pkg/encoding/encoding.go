// Package encoding decodes mesh source text written in legacy code pages
// (Windows-1252, EUC-KR, Shift_JIS, ...) to UTF-8.
package encoding

import (
	"fmt"
	"io"
	"strings"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// UTF8 is the default source encoding.
const UTF8 = "utf-8"

// Lookup returns the encoding registered under name (WHATWG labels such as
// "windows-1252", "euc-kr" or "shift_jis"). An empty name means UTF-8.
func Lookup(name string) (xencoding.Encoding, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" || name == UTF8 || name == "utf8" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown text encoding %q: %w", name, err)
	}
	return enc, nil
}

// NewReader wraps r so that it yields UTF-8 text. A leading byte order mark
// is removed and, if it names a Unicode encoding, overrides enc.
func NewReader(r io.Reader, enc xencoding.Encoding) io.Reader {
	if enc == nil {
		enc = unicode.UTF8
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))
}
