package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dimchansky/utfbom"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

var ErrUnknownCharset = errors.New("unknown character set")

// chardet names that the IANA/WHATWG indexes spell differently
var charsetAliases = map[string]string{
	"GB-18030":     "GB18030",
	"ISO-8859-8-I": "ISO-8859-8",
}

// Decode returns data as UTF-8 text along with the detected charset name.
// A byte order mark selects the encoding and is dropped; otherwise valid
// UTF-8 is used as is and anything else goes through charset detection.
func Decode(data []byte) (string, string, error) {
	rd, bom := utfbom.Skip(bytes.NewReader(data))

	var enc encoding.Encoding
	switch bom {
	case utfbom.UTF8:
		enc = unicode.UTF8
	case utfbom.UTF16BigEndian:
		enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case utfbom.UTF16LittleEndian:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case utfbom.UTF32BigEndian:
		enc = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	case utfbom.UTF32LittleEndian:
		enc = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	}
	if enc != nil {
		text, err := decodeWith(rd, enc)
		return text, bom.String(), err
	}

	if utf8.Valid(data) {
		return string(data), "UTF-8", nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", "", fmt.Errorf("failed to detect charset: %w", err)
	}

	enc, err = lookup(result.Charset)
	if err != nil {
		return "", result.Charset, err
	}

	text, err := decodeWith(bytes.NewReader(data), enc)
	return text, result.Charset, err
}

func lookup(name string) (encoding.Encoding, error) {
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(strings.ToLower(name)); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, name)
}

func decodeWith(r io.Reader, enc encoding.Encoding) (string, error) {
	out, err := io.ReadAll(transform.NewReader(r, enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(out), nil
}
