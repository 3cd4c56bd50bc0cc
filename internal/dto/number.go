package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// The dashboards post form values serialized as JSON, so numeric fields
// arrive either as JSON numbers or as quoted strings. ID and Float accept
// both.

// Int is an int64 that accepts 7 or "7"
type Int int64

// ID is a row id
type ID = Int

func (i *Int) UnmarshalJSON(b []byte) error {
	s, empty := unquote(b)
	if empty {
		*i = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*i = Int(n)
	return nil
}

// Float is a float64 that accepts 12.5 or "12.5"
type Float float64

func (f *Float) UnmarshalJSON(b []byte) error {
	s, empty := unquote(b)
	if empty {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = Float(n)
	return nil
}

func unquote(b []byte) (string, bool) {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return "", true
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	return s, s == ""
}

// ParseFloat parses a multipart form number
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
