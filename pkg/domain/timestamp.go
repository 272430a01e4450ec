package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a time.Time that tolerates the backend's datetime encoding.
// The server stores UTC but serializes without an offset
// ("2024-01-15T12:30:45.123456"); standard RFC 3339 values decode too, and
// null or an empty string decode to the zero time. Offset-less values are
// interpreted as UTC.
type Timestamp struct {
	time.Time
}

// Parsing tolerates a fractional-seconds suffix on every layout.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
