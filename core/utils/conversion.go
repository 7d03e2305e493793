package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBool is returned by ParseBool for unrecognized literals.
var ErrInvalidBool = errors.New("invalid boolean literal")

// ParseBool parses a boolean literal from a settings document. Only
// true/false, yes/no and 1/0 are accepted, case-insensitively and ignoring
// surrounding blanks.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%q: %w", s, ErrInvalidBool)
	}
}

// ToBool converts a decoded document value to bool.
// It handles bool, integers (0 and 1 only) and strings accepted by ParseBool.
func ToBool(val any) (bool, error) {
	switch v := val.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int:
		return ParseBool(fmt.Sprint(v))
	case int64:
		return ParseBool(fmt.Sprint(v))
	case float64:
		// JSON numbers decode as float64.
		if v == 0 || v == 1 {
			return v == 1, nil
		}
		return false, fmt.Errorf("%v: %w", v, ErrInvalidBool)
	case string:
		return ParseBool(v)
	case []byte:
		return ParseBool(string(v))
	default:
		return false, fmt.Errorf("%T: %w", val, ErrInvalidBool)
	}
}
