// Package extract pulls typed values out of arbitrarily-shaped webhook
// payloads. The upstream lab system sends the same logical field under
// many spellings ("patientId", "Patient Id", "PATIENT ID"), so every
// lookup runs over an ordered candidate list: exact key match across all
// candidates first, then a case-insensitive pass. Extraction is a pure
// function of the payload; nothing here keeps state between requests.
package extract

import (
	"strconv"
	"strings"
	"time"
)

// Payload is a decoded webhook body: an arbitrary string-keyed map of
// JSON-compatible values.
type Payload = map[string]interface{}

// Lookup returns the first present, cleaned value for the candidate keys.
// All candidates are tried with exact (case-sensitive) key match before any
// is tried case-insensitively, so an exact hit always beats a folded one.
func Lookup(payload Payload, candidates ...string) (interface{}, bool) {
	for _, key := range candidates {
		if raw, ok := payload[key]; ok {
			if v, present := CleanValue(raw); present {
				return v, true
			}
		}
	}
	for _, key := range candidates {
		for k, raw := range payload {
			if strings.EqualFold(k, key) {
				if v, present := CleanValue(raw); present {
					return v, true
				}
			}
		}
	}
	return nil, false
}

// CleanValue normalizes a raw payload value. Strings are trimmed; trimmed
// "", "-", "n/a" and "null" (case-insensitive) count as absent. Non-string
// values pass through unchanged; nil is absent.
func CleanValue(raw interface{}) (interface{}, bool) {
	if raw == nil {
		return nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return raw, true
	}
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "", "-", "n/a", "null":
		return nil, false
	}
	return trimmed, true
}

// String extracts a field as a string. Numbers are rendered without a
// trailing fraction when integral, so a JSON billId of 100 becomes "100".
func String(payload Payload, candidates ...string) string {
	v, ok := Lookup(payload, candidates...)
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Stringify renders a cleaned payload value as a string.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Strings extracts a field that may be a scalar or an array (the report
// path sends testID as an array). Each element is stringified; absent and
// uncleanable elements are skipped.
func Strings(payload Payload, candidates ...string) []string {
	v, ok := Lookup(payload, candidates...)
	if !ok {
		return nil
	}
	arr, isArr := v.([]interface{})
	if !isArr {
		if s := Stringify(v); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, el := range arr {
		cleaned, present := CleanValue(el)
		if !present {
			continue
		}
		if s := Stringify(cleaned); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Number extracts a field as a float64, accepting JSON numbers and numeric
// strings.
func Number(payload Payload, candidates ...string) *float64 {
	v, ok := Lookup(payload, candidates...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return &f
		}
	}
	return nil
}

// ParseAge parses an age that may arrive as a number or as a string like
// "26 years": the first contiguous run of digits is taken as the age.
// Already-numeric input is returned unchanged.
func ParseAge(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		start := -1
		for i, r := range t {
			if r >= '0' && r <= '9' {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				n, err := strconv.Atoi(t[start:i])
				return n, err == nil
			}
		}
		if start >= 0 {
			n, err := strconv.Atoi(t[start:])
			return n, err == nil
		}
	}
	return 0, false
}

// Age extracts and parses an age field.
func Age(payload Payload, candidates ...string) *int {
	v, ok := Lookup(payload, candidates...)
	if !ok {
		return nil
	}
	if n, ok := ParseAge(v); ok {
		return &n
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006 15:04",
	"02-01-2006",
	"02/01/2006 15:04",
	"02/01/2006",
	"Jan 2, 2006 3:04:05 PM",
}

// ParseDate parses a date value that may be an RFC3339/common-format string
// or an epoch-milliseconds number. Anything that does not parse to a valid
// date is dropped (absent), never stored.
func ParseDate(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		// Upstream timestamps are epoch milliseconds.
		if t > 1e11 {
			return time.UnixMilli(int64(t)), true
		}
		if t > 0 {
			return time.Unix(int64(t), 0), true
		}
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// Date extracts and parses a date field.
func Date(payload Payload, candidates ...string) *time.Time {
	v, ok := Lookup(payload, candidates...)
	if !ok {
		return nil
	}
	if ts, parsed := ParseDate(v); parsed {
		return &ts
	}
	return nil
}

// Objects extracts a field holding an array of objects (signing doctors,
// report format/value rows). A single object is wrapped into a one-element
// slice; malformed elements are skipped rather than failing the record.
func Objects(payload Payload, candidates ...string) []map[string]interface{} {
	v, ok := Lookup(payload, candidates...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{t}
	case []interface{}:
		var out []map[string]interface{}
		for _, el := range t {
			if obj, isObj := el.(map[string]interface{}); isObj {
				out = append(out, obj)
			}
		}
		return out
	}
	return nil
}

// Object extracts a field holding a single nested object.
func Object(payload Payload, candidates ...string) map[string]interface{} {
	v, ok := Lookup(payload, candidates...)
	if !ok {
		return nil
	}
	obj, isObj := v.(map[string]interface{})
	if !isObj {
		return nil
	}
	return obj
}
