package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampDecodesOffsetlessISO(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2024-01-15T12:30:45.123456"`), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, 1, 15, 12, 30, 45, 123456000, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("got %v, want %v", ts.Time, want)
	}
}

func TestTimestampDecodesRFC3339(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2024-01-15T12:30:45Z"`), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("got %v, want %v", ts.Time, want)
	}
}

func TestTimestampDecodesVariants(t *testing.T) {
	cases := []struct {
		name string
		in   string
		zero bool
	}{
		{"seconds only", `"2024-01-15T12:30:45"`, false},
		{"date only", `"2024-01-15"`, false},
		{"offset", `"2024-01-15T12:30:45+02:00"`, false},
		{"null", `null`, true},
		{"empty string", `""`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tc.in), &ts); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if ts.IsZero() != tc.zero {
				t.Fatalf("IsZero() = %v for %s", ts.IsZero(), tc.in)
			}
		})
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"next tuesday"`), &ts); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTimestampMarshal(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-01-15T12:30:45Z"` {
		t.Fatalf("unexpected encoding %s", data)
	}
	if data, _ := json.Marshal(Timestamp{}); string(data) != "null" {
		t.Fatalf("zero value must encode as null, got %s", data)
	}
}
