package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts covers the shapes the sleep service emits: RFC 3339 with
// or without fractional seconds, and zone-less ISO-8601 (treated as UTC).
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Time is a timestamp that decodes from any of the service's ISO-8601
// variants and encodes back to ISO-8601. Constructing it from an
// already-parsed time.Time yields the same in-memory representation.
type Time struct {
	time.Time
}

func NewTime(value time.Time) Time {
	return Time{Time: value}
}

// ParseTimestamp parses ISO-8601 text into a time.Time.
func ParseTimestamp(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", raw)
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be ISO-8601 text: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}
