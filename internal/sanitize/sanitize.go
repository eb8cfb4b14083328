package sanitize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MetadataKeys are the gateway transport/bookkeeping fields removed from each
// per-instrument entry before a payload is returned to callers.
var MetadataKeys = []string{
	"_updated",
	"server_id",
	"conidEx",
	"conid_ex",
	"market_data_marker",
	"market_data_availability",
	"service_params",
}

// Value recursively rewrites v so that every node is nil, a bool, a number,
// a string, a list, or a string-keyed map. Byte slices decode as UTF-8 (with
// a formatted fallback), times and decimals take their canonical string
// forms, and anything unrepresentable falls back to its string form. Value
// never fails.
func Value(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		json.Number:
		return x
	case []byte:
		if utf8.Valid(x) {
			return string(x)
		}
		return fmt.Sprintf("%v", x)
	case time.Time:
		return x.Format(time.RFC3339)
	case decimal.Decimal:
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = Value(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Value(val)
		}
		return out
	}

	// Generic maps and slices (e.g. map[int]string) via reflection, keys
	// coerced to strings.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = Value(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Value(rv.Index(i).Interface())
		}
		return out
	}

	// Last resort: keep it if the encoder can, stringify otherwise.
	if _, err := json.Marshal(v); err == nil {
		return v
	}
	return fmt.Sprintf("%v", v)
}

// StripMetadata removes the given keys from every per-instrument entry.
// A nil keys list means MetadataKeys. Keys absent from an entry are ignored;
// applying it twice is the same as applying it once. The input is not
// modified.
func StripMetadata(entries map[string]map[string]any, keys []string) map[string]map[string]any {
	if keys == nil {
		keys = MetadataKeys
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}

	out := make(map[string]map[string]any, len(entries))
	for conid, entry := range entries {
		kept := make(map[string]any, len(entry))
		for k, v := range entry {
			if _, skip := drop[k]; skip {
				continue
			}
			kept[k] = v
		}
		out[conid] = kept
	}
	return out
}

// Encode sanitizes v and marshals it. An error here means even the sanitized
// form could not be encoded, which callers surface as a distinct boundary
// failure rather than dropping data silently.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(Value(v))
	if err != nil {
		return nil, fmt.Errorf("encode sanitized payload: %w", err)
	}
	return b, nil
}
