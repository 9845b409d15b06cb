package github

import (
	"strconv"
	"time"
)

// Timestamp represents a time that can be unmarshaled from a JSON string
// formatted as RFC 3339 or from a Unix timestamp integer. This is the
// Go-idiomatic analogue of go-github's Timestamp type, which GitHub's API
// requires because a handful of endpoints still emit epoch seconds instead
// of RFC 3339 strings.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if s[0] == '"' {
		parsed, err := time.Parse(`"`+time.RFC3339+`"`, s)
		if err != nil {
			parsed, err = time.Parse(`"2006-01-02T15:04:05"`, s)
			if err != nil {
				return err
			}
		}
		t.Time = parsed
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	t.Time = time.Unix(n, 0)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.Format(time.RFC3339) + `"`), nil
}
