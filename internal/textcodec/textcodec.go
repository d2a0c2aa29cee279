package textcodec

import (
	"math"
	"strconv"
	"strings"
)

// Codecs between the free-text fields the editor exposes and the structured
// values the store persists. Every function here is total: nil-ish, empty or
// malformed input yields a well-defined empty value, never an error.

// SplitLines breaks text on line breaks, trimming each line and dropping
// empty ones.
func SplitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// JoinLines is the inverse of SplitLines: non-empty trimmed items joined with
// line breaks.
func JoinLines(items []string) string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return strings.Join(out, "\n")
}

// Pair is one "name | value" line. Value is empty for a line with no
// separator.
type Pair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParsePairs reads "name | value" lines. Only the first pipe separates; any
// further pipes stay in the value.
func ParsePairs(text string) []Pair {
	var out []Pair
	for _, line := range SplitLines(text) {
		name, value, found := strings.Cut(line, "|")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p := Pair{Name: name}
		if found {
			p.Value = strings.TrimSpace(value)
		}
		out = append(out, p)
	}
	return out
}

// FormatPairs renders each pair as "name | value", or the bare name when the
// value is empty.
func FormatPairs(pairs []Pair) string {
	var lines []string
	for _, p := range pairs {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		if value := strings.TrimSpace(p.Value); value != "" {
			lines = append(lines, name+" | "+value)
		} else {
			lines = append(lines, name)
		}
	}
	return strings.Join(lines, "\n")
}

// Record is one "key: value" line. A key may hold several values when the
// right side uses "|" separators.
type Record struct {
	Key    string
	Values []string
}

// KeyedText is the result of ParseKeyed. Exactly one of the two shapes is
// populated: Records (plus the optional General bucket) when at least one
// line carried a "key:" prefix, or Lines when none did. The dual shape lets
// the same column hold structured and free-narrative history without a
// migration.
type KeyedText struct {
	Records []Record
	General []string
	Lines   []string
}

// Keyed reports whether the parse produced key/value records.
func (k KeyedText) Keyed() bool { return len(k.Records) > 0 }

// ParseKeyed reads "key: value" lines. Entry order is preserved. Unkeyed
// lines become the General bucket when keyed lines exist, otherwise the whole
// input degrades to a flat line list.
func ParseKeyed(text string) KeyedText {
	var records []Record
	var loose []string
	for _, line := range SplitLines(text) {
		key, value, found := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			loose = append(loose, line)
			continue
		}
		rec := Record{Key: key}
		for _, segment := range strings.Split(value, "|") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			rec.Values = append(rec.Values, segment)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return KeyedText{Lines: loose}
	}
	return KeyedText{Records: records, General: loose}
}

// FormatKeyed is the inverse of ParseKeyed.
func FormatKeyed(k KeyedText) string {
	if !k.Keyed() {
		return JoinLines(k.Lines)
	}
	var lines []string
	for _, rec := range k.Records {
		key := strings.TrimSpace(rec.Key)
		if key == "" {
			continue
		}
		lines = append(lines, key+": "+strings.Join(rec.Values, " | "))
	}
	lines = append(lines, k.General...)
	return strings.Join(lines, "\n")
}

// ParseNumber parses a numeric input field. Empty input is nil; so is
// anything that does not parse to a finite number. NaN and infinities never
// reach a payload.
func ParseNumber(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// tolerate the decimal comma the editor's locale produces
	text = strings.ReplaceAll(text, ",", ".")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// FormatNumber renders a numeric field back to its editing text, empty for
// nil.
func FormatNumber(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
