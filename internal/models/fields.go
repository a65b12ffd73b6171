package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID is an entity identifier. The backend emits integer ids, but string ids are
// accepted too so the frontend never depends on the storage key type.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Text is a free-form string field that the backend sometimes serializes as a
// number (quantities such as 2 or "2 slices").
type Text string

// UnmarshalJSON accepts a JSON string, number, bool or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// timestampLayouts are the formats the backend is known to produce: Flask's
// HTTP-date for datetime columns, ISO strings echoed from forms, and raw SQL.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a nullable point in time. A zero Timestamp means the backend
// sent null, nothing, or a value in an unknown format.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s with every known backend layout. Naive layouts are
// interpreted in UTC.
func ParseTimestamp(s string) (Timestamp, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, true
		}
	}
	return Timestamp{}, false
}

// UnmarshalJSON never fails on a string value; unparseable input yields a zero Timestamp.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*ts = Timestamp{}
		return nil
	}
	parsed, _ := ParseTimestamp(s)
	*ts = parsed
	return nil
}

// MarshalJSON writes RFC 3339, or null for a zero value.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339))
}

// DietaryTags is the ordered list of dietary labels on a post. The backend
// stores them as a JSON-encoded string (dietary_json), so both an array and a
// string holding an array are accepted. Anything else decodes to no tags.
type DietaryTags []string

// UnmarshalJSON tolerates malformed input by producing an empty list.
func (d *DietaryTags) UnmarshalJSON(data []byte) error {
	*d = ParseDietaryTags(data)
	return nil
}

// ParseDietaryTags decodes raw JSON that is either an array of strings or a
// string containing one. It returns nil when neither shape matches.
func ParseDietaryTags(data []byte) DietaryTags {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil
		}
		data = []byte(inner)
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil
	}
	return DietaryTags(tags)
}

// FormatKg renders a weight with one decimal place, e.g. 6 -> "6.0".
func FormatKg(kg float64) string {
	return strconv.FormatFloat(kg, 'f', 1, 64)
}
