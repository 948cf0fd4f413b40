package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

// NormalizeRow trims and upper-cases every header. Values are kept as-is. When several raw
// headers collapse onto the same key, the first non-empty value in sorted raw-key order wins.
// The source line entry is dropped.
func NormalizeRow(raw record.RawRow) record.NormalizedRow {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		if k == record.SourceLineKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(record.NormalizedRow, len(raw))
	for _, k := range keys {
		nk := record.NormalizeHeader(k)
		if nk == "" {
			continue
		}
		v := raw[k]
		if prev, seen := out[nk]; seen && !isBlank(prev) {
			continue
		}
		out[nk] = v
	}
	return out
}

func isBlank(v any) bool {
	return scalarString(v) == ""
}

// scalarString renders a spreadsheet scalar as trimmed text.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateOnly)
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// formatFloat keeps whole numbers free of exponent notation so 16-digit identifiers survive.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e18 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
