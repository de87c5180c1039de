package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names a supported text encoding for source and output files.
type Encoding string

const (
	// Latin1 is ISO-8859-1, the encoding the sales exports ship in.
	Latin1 Encoding = "latin1"
	// Windows1252 is the Windows superset of Latin-1.
	Windows1252 Encoding = "windows-1252"
	// UTF8 is UTF-8. A leading byte order mark is skipped and invalid
	// sequences become U+FFFD.
	UTF8 Encoding = "utf-8"
)

// ParseEncoding accepts common spellings of the supported encodings.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	case "windows-1252", "cp1252":
		return Windows1252, nil
	case "utf-8", "utf8", "":
		return UTF8, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", s)
	}
}

// Codec returns the x/text encoding for e.
func (e Encoding) Codec() (encoding.Encoding, error) {
	switch e {
	case Latin1:
		return charmap.ISO8859_1, nil
	case Windows1252:
		return charmap.Windows1252, nil
	case UTF8:
		return unicode.UTF8BOM, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", string(e))
	}
}

// NewDecodingReader wraps r so that reads yield UTF-8.
func NewDecodingReader(r io.Reader, e Encoding) (io.Reader, error) {
	codec, err := e.Codec()
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, codec.NewDecoder()), nil
}
