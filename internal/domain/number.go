package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric feed field that may be encoded as a JSON number or a
// numeric string. Raw keeps the text as received.
type Number struct {
	Value float64
	Raw   string
}

// NewNumber returns a Number whose raw text is the shortest decimal form of v.
func NewNumber(v float64) Number {
	return Number{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Valid reports whether the value is a finite number.
func (n Number) Valid() bool {
	return !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)
}

func (n Number) String() string {
	if n.Raw != "" {
		return n.Raw
	}
	if !n.Valid() {
		return "NaN"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// UnmarshalJSON accepts 1.25, "1.25", and null. Strings that do not parse
// produce NaN.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = Number{Value: math.NaN()}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode numeric string: %w", err)
		}
		*n = Number{Value: parseFloatOrNaN(s), Raw: s}
		return nil
	default:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("decode number %q: %w", data, err)
		}
		*n = Number{Value: v, Raw: string(data)}
		return nil
	}
}

// MarshalJSON writes finite values as JSON numbers and anything else as the
// raw string.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.Valid() {
		return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
	}
	return json.Marshal(n.Raw)
}

func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
