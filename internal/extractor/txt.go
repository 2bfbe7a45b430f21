package extractor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText turns an uploaded text file into a string. UTF-8 is expected;
// BOMs are honoured and non-UTF-8 input falls back to Windows-1252. Line
// endings are normalised to "\n", everything else is kept verbatim.
func DecodeText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty text file")
	}

	text, err := decodeText(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text file: %w", err)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return text, nil
}

func decodeText(data []byte) (string, error) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return string(data[3:]), nil
	}

	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		decoder := xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}

	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		decoder := xunicode.UTF16(xunicode.BigEndian, xunicode.UseBOM).NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// LooksLikeText reports whether at least 80% of the first 512 runes are
// printable or whitespace. Binary files smuggled in as .txt fail this.
func LooksLikeText(text string) bool {
	total, printable := 0, 0
	for _, r := range text {
		if total == 512 {
			break
		}
		total++
		if r == '\t' || r == '\n' || r == '\r' || (r != utf8.RuneError && unicode.IsPrint(r)) {
			printable++
		}
	}
	if total == 0 {
		return false
	}
	return float64(printable)/float64(total) >= 0.8
}

