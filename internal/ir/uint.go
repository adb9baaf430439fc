package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Uint64 is an unsigned identifier that marshals as a decimal JSON string.
//
// Strings keep values above 2^53 exact for clients that decode JSON numbers
// as float64. Unmarshaling accepts either a string or a bare number.
type Uint64 uint64

// String returns the decimal representation.
func (u Uint64) String() string {
	return strconv.FormatUint(uint64(u), 10)
}

// MarshalJSON implements json.Marshaler.
func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(u.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *Uint64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("uint64: %w", err)
		}
		return u.parse(s)
	}
	return u.parse(string(data))
}

func (u *Uint64) parse(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("uint64: invalid value %q: %w", s, err)
	}
	*u = Uint64(n)
	return nil
}

// ParseUint64 parses a decimal string into a Uint64.
func ParseUint64(s string) (Uint64, error) {
	var u Uint64
	if err := u.parse(s); err != nil {
		return 0, err
	}
	return u, nil
}
