package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ConID is the provider-assigned numeric contract identifier.
type ConID int64

// String returns the decimal form used as a JSON payload key.
func (c ConID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// ParseConID parses a decimal contract ID string.
func ParseConID(s string) (ConID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse conid %q: %w", s, err)
	}
	return ConID(n), nil
}

// Placeholder is the value the gateway reports for a field that carries no
// data yet (e.g. before the snapshot subscription warms up).
const Placeholder = "N/A"

// Tick holds one instrument's snapshot fields. The commonly requested fields
// are typed; codes the catalog does not name land in Extra unchanged, so the
// open-world field set survives the translation step.
type Tick struct {
	ConID ConID

	Symbol      string
	CompanyName string
	LastPrice   string
	MarkPrice   string
	Bid         string
	Ask         string
	High        string
	Low         string
	Open        string
	PriorClose  string
	Change      string
	ChangePct   string
	Volume      string

	Extra map[string]any
}

// knownSetters maps a semantic field name to its typed slot on Tick.
var knownSetters = map[string]func(*Tick, string){
	"symbol":       func(t *Tick, v string) { t.Symbol = v },
	"company_name": func(t *Tick, v string) { t.CompanyName = v },
	"last_price":   func(t *Tick, v string) { t.LastPrice = v },
	"mark_price":   func(t *Tick, v string) { t.MarkPrice = v },
	"bid_price":    func(t *Tick, v string) { t.Bid = v },
	"ask_price":    func(t *Tick, v string) { t.Ask = v },
	"high":         func(t *Tick, v string) { t.High = v },
	"low":          func(t *Tick, v string) { t.Low = v },
	"open":         func(t *Tick, v string) { t.Open = v },
	"prior_close":  func(t *Tick, v string) { t.PriorClose = v },
	"change":       func(t *Tick, v string) { t.Change = v },
	"change_percent": func(t *Tick, v string) {
		t.ChangePct = v
	},
	"volume": func(t *Tick, v string) { t.Volume = v },
}

// TickFromFields builds a Tick from a map of already-translated field names.
// Known names fill the typed slots (coerced to their string form); everything
// else is kept verbatim in Extra.
func TickFromFields(conid ConID, fields map[string]any) Tick {
	t := Tick{ConID: conid}
	for name, value := range fields {
		if set, ok := knownSetters[name]; ok {
			set(&t, scalarString(value))
			continue
		}
		if t.Extra == nil {
			t.Extra = make(map[string]any)
		}
		t.Extra[name] = value
	}
	return t
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// Lookup returns the value stored under a semantic field name, checking the
// typed slots first and the Extra bag second. Empty typed slots read as
// absent.
func (t Tick) Lookup(name string) (any, bool) {
	if _, known := knownSetters[name]; known {
		if v := t.knownValue(name); v != "" {
			return v, true
		}
		return nil, false
	}
	v, ok := t.Extra[name]
	return v, ok
}

func (t Tick) knownValue(name string) string {
	switch name {
	case "symbol":
		return t.Symbol
	case "company_name":
		return t.CompanyName
	case "last_price":
		return t.LastPrice
	case "mark_price":
		return t.MarkPrice
	case "bid_price":
		return t.Bid
	case "ask_price":
		return t.Ask
	case "high":
		return t.High
	case "low":
		return t.Low
	case "open":
		return t.Open
	case "prior_close":
		return t.PriorClose
	case "change":
		return t.Change
	case "change_percent":
		return t.ChangePct
	case "volume":
		return t.Volume
	}
	return ""
}

// Fields flattens the Tick back into a name-to-value map: non-empty typed
// slots plus the Extra bag. The result is a fresh map on every call.
func (t Tick) Fields() map[string]any {
	out := make(map[string]any, len(knownSetters)+len(t.Extra))
	for name := range knownSetters {
		if v := t.knownValue(name); v != "" {
			out[name] = v
		}
	}
	for name, v := range t.Extra {
		out[name] = v
	}
	return out
}

// Snapshot is one point-in-time read of a set of instruments. Produced fresh
// on every successful poll; never merged across polls.
type Snapshot map[ConID]Tick

// Entries renders the snapshot as the outbound payload shape: conid string to
// field map.
func (s Snapshot) Entries() map[string]map[string]any {
	out := make(map[string]map[string]any, len(s))
	for conid, tick := range s {
		out[conid.String()] = tick.Fields()
	}
	return out
}

// Bar is a single historical OHLCV bar.
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}
