package jsonutil

import (
	"fmt"
	"strings"
	"time"
)

// Time is a wire timestamp tolerant of the backend's serialization.
// FastAPI emits naive ISO 8601 ("2026-08-29T12:00:00.123456") with no
// zone offset, which time.Time rejects as RFC 3339. Naive values are
// taken as UTC.
type Time struct {
	time.Time
}

// naiveLayouts are tried after RFC 3339, most precise first.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("jsonutil: unparseable timestamp %q", s)
}

// MarshalJSON implements json.Marshaler, always emitting RFC 3339 UTC.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}
