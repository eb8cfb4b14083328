package snapshot

import "github.com/johnlam1968/ibkr-data/internal/model"

// priceFields are the field names accepted as evidence of live data: the
// canonical last price plus its equivalents.
var priceFields = []string{"last_price", "last", "mark_price"}

// Valid reports whether a snapshot carries real data: at least one
// instrument with a non-empty, non-placeholder price-bearing field. A
// snapshot that fails this check is treated as absent data, never released
// to callers.
func Valid(s model.Snapshot) bool {
	for _, tick := range s {
		if hasPrice(tick) {
			return true
		}
	}
	return false
}

func hasPrice(t model.Tick) bool {
	for _, name := range priceFields {
		v, ok := t.Lookup(name)
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && (s == "" || s == model.Placeholder) {
			continue
		}
		return true
	}
	return false
}
