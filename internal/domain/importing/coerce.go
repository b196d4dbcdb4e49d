package importing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RecordName extracts the identity name as given. Anything other than a
// non-blank string counts as missing.
func RecordName(record map[string]any) (string, bool) {
	name, ok := record["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

// DisplayName is the record name for log messages, "unknown" when absent.
func DisplayName(record map[string]any) string {
	switch v := record["name"].(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case nil:
	default:
		return fmt.Sprint(v)
	}
	return "unknown"
}

// Truthy accepts exactly the representations true, "true" and 1.
func Truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	case float64:
		return v == 1
	case int:
		return v == 1
	case int64:
		return v == 1
	default:
		return false
	}
}

// Number coerces a price-like value. Absent, non-numeric and non-finite
// values become 0.
func Number(value any) float64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Text coerces an optional string attribute; null clears it.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// StringList coerces a categories value. Anything other than a list yields an
// empty list; non-string members are formatted.
func StringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		if typed, ok := value.([]string); ok {
			return append([]string{}, typed...)
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, Text(item))
	}
	return out
}
