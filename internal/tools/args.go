package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Args are the decoded tool arguments. Numbers arrive as float64 from JSON,
// as json.Number from a UseNumber decoder, or as strings from query params.
type Args map[string]any

func (a Args) Int(name string, def int) (int, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, invalidArg(name, "must be an integer")
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, invalidArg(name, "must be an integer")
		}
		return int(i), nil
	case string:
		if strings.TrimSpace(n) == "" {
			return def, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, invalidArg(name, "must be an integer")
		}
		return i, nil
	}
	return 0, invalidArg(name, fmt.Sprintf("unexpected type %T", v))
}

// String returns a required or optional string. Numeric values are accepted
// so that ids sent as JSON numbers still work.
func (a Args) String(name string, required bool) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		if required {
			return "", invalidArg(name, "is required")
		}
		return "", nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		s = t.String()
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	default:
		return "", invalidArg(name, fmt.Sprintf("unexpected type %T", v))
	}
	if s == "" && required {
		return "", invalidArg(name, "must not be empty")
	}
	return s, nil
}

// limit reads the optional "limit" argument and bounds it to 1..MaxLimit.
func (a Args) limit() (int, error) {
	n, err := a.Int("limit", defaultLimit)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, invalidArg("limit", "must be at least 1")
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, nil
}
