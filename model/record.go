package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CommitRecord is one record from the commit feed. Records arrive as
// JSON from git/GitHub ingestion; the timestamp may be a unix integer or
// an ISO-8601 string depending on the producer.
type CommitRecord struct {
	Hash         string   `json:"hash"`
	Author       string   `json:"author"`
	Email        string   `json:"email,omitempty"`
	Timestamp    FlexTime `json:"timestamp"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body,omitempty"`
	FilesChanged []string `json:"files_changed,omitempty"`
}

// FlexTime decodes either a unix timestamp (integer or numeric string)
// or an ISO-8601 / RFC 3339 string.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		t.Time = time.Unix(int64(v), 0).UTC()
		return nil
	case string:
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			t.Time = time.Unix(unix, 0).UTC()
			return nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
		return fmt.Errorf("unsupported timestamp format: %q", v)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type: %T", raw)
	}
}

// MarshalJSON implements json.Marshaler, emitting RFC 3339
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
