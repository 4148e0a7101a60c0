package source

import (
	"fmt"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// DecodeText converts raw bytes into a UTF-8 string, sniffing the charset
// when the bytes are not already valid UTF-8. Unknown charsets fall back to
// interpreting the bytes as UTF-8 rather than failing the whole source.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return string(data), nil
	}

	enc := encodingFor(result.Charset)
	if enc == nil {
		return string(data), nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", result.Charset, err)
	}
	return string(decoded), nil
}

// encodingFor maps a detected charset name to a decoder. GB2312 and GBK are
// handled by GB18030, their superset, matching the usual promotion for
// mislabeled mainland-Chinese text.
func encodingFor(charset string) encoding.Encoding {
	switch charset {
	case "GB2312", "GBK", "GB-18030":
		return simplifiedchinese.GB18030
	case "Big5":
		return traditionalchinese.Big5
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252
	default:
		return nil
	}
}
