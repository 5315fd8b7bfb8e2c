package handlers

import (
	"encoding/json"
	"fmt"
	"time"
)

// jsonTime accepts RFC 3339 timestamps and plain dates.
type jsonTime struct {
	time.Time
}

func (t *jsonTime) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (t *jsonTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}
