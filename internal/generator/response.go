package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var errNotContainer = errors.New("reply is neither a JSON array nor an object")

// preferredColumns come first in tables, in this order, when present.
var preferredColumns = []string{"id", "title", "precondition", "steps", "expected_result"}

// valueColumn holds array elements that are not objects.
const valueColumn = "value"

// Result is a model reply after cleanup. When Parsed is false only Raw is
// meaningful and callers show it as-is.
type Result struct {
	Raw       string
	Cleaned   string
	Parsed    bool
	ParseErr  error
	Data      any
	Count     int
	Table     Table
	SchemaErr error
}

type Table struct {
	Columns []string
	Rows    [][]string
}

// CleanResponse removes Markdown code-fence markers anywhere in the reply.
func CleanResponse(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParseResponse cleans raw and decodes it. A reply that isn't a JSON array
// or object is reported through ParseErr, never as a failure.
func ParseResponse(raw string) *Result {
	res := &Result{Raw: raw, Cleaned: CleanResponse(raw)}

	var data any
	if err := json.Unmarshal([]byte(res.Cleaned), &data); err != nil {
		res.ParseErr = err
		return res
	}

	switch v := data.(type) {
	case []any:
		res.Count = len(v)
	case map[string]any:
		res.Count = len(v)
	default:
		res.ParseErr = errNotContainer
		return res
	}

	res.Parsed = true
	res.Data = data
	res.Table = buildTable(res.Cleaned)
	res.SchemaErr = ValidateTestCases(data)

	return res
}

// Pretty re-serialises the parsed reply with a four-space indent, keeping
// key order. Non-ASCII text is written as UTF-8, \uXXXX escapes included.
func (r *Result) Pretty() []byte {
	if !r.Parsed {
		return nil
	}
	out := pretty.PrettyOptions([]byte(r.Cleaned), &pretty.Options{Indent: "    "})
	return decodeUnicodeEscapes(out)
}

// decodeUnicodeEscapes rewrites \uXXXX escapes inside JSON strings as
// literal UTF-8. Control characters, quotes and backslashes stay escaped.
func decodeUnicodeEscapes(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u`)) {
		return b
	}

	out := make([]byte, 0, len(b))
	inString := false
	for i := 0; i < len(b); i++ {
		c := b[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			out = append(out, c)
			continue
		}

		switch c {
		case '"':
			inString = false
			out = append(out, c)
		case '\\':
			if r, n := literalEscape(b[i:]); n > 0 {
				out = utf8.AppendRune(out, r)
				i += n - 1
				continue
			}
			out = append(out, c)
			if i+1 < len(b) {
				i++
				out = append(out, b[i])
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// literalEscape decodes the \uXXXX escape (or surrogate pair) at the start
// of b. n is 0 when the escape has to stay as it is.
func literalEscape(b []byte) (r rune, n int) {
	r, ok := hexEscape(b)
	if !ok {
		return 0, 0
	}

	if utf16.IsSurrogate(r) {
		if low, ok := hexEscape(b[min(6, len(b)):]); ok {
			if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
				return pair, 12
			}
		}
		return 0, 0
	}

	if r < 0x20 || r == '"' || r == '\\' {
		return 0, 0
	}
	return r, 6
}

func hexEscape(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[2:6]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func buildTable(cleaned string) Table {
	root := gjson.Parse(cleaned)

	records := []gjson.Result{root}
	if root.IsArray() {
		records = root.Array()
	}

	seen := map[string]bool{}
	var firstSeen []string
	rows := make([]map[string]gjson.Result, 0, len(records))

	for _, rec := range records {
		row := map[string]gjson.Result{}
		if rec.IsObject() {
			rec.ForEach(func(key, value gjson.Result) bool {
				k := key.String()
				row[k] = value
				if !seen[k] {
					seen[k] = true
					firstSeen = append(firstSeen, k)
				}
				return true
			})
		} else {
			row[valueColumn] = rec
			if !seen[valueColumn] {
				seen[valueColumn] = true
				firstSeen = append(firstSeen, valueColumn)
			}
		}
		rows = append(rows, row)
	}

	var columns []string
	for _, c := range preferredColumns {
		if seen[c] {
			columns = append(columns, c)
		}
	}
	for _, c := range firstSeen {
		if !isPreferred(c) {
			columns = append(columns, c)
		}
	}

	table := Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := row[c]; ok {
				cells[i] = cellText(v)
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	return table
}

func isPreferred(column string) bool {
	for _, c := range preferredColumns {
		if c == column {
			return true
		}
	}
	return false
}

func cellText(v gjson.Result) string {
	switch {
	case v.Type == gjson.Null:
		return ""
	case v.Type == gjson.String:
		return v.String()
	case v.IsArray():
		parts := make([]string, 0)
		for _, item := range v.Array() {
			parts = append(parts, cellText(item))
		}
		return strings.Join(parts, "\n")
	default:
		return v.Raw
	}
}
