package fields

// byCode maps the gateway's numeric snapshot field codes to semantic names.
var byCode = map[string]string{
	"31":   "last_price",
	"55":   "symbol",
	"58":   "text",
	"70":   "high",
	"71":   "low",
	"73":   "market_value",
	"74":   "avg_price",
	"82":   "change",
	"83":   "change_percent",
	"84":   "bid_price",
	"85":   "ask_size",
	"86":   "ask_price",
	"87":   "volume",
	"88":   "bid_size",
	"6004": "exchange",
	"6008": "conid",
	"6070": "sec_type",
	"6072": "months",
	"6073": "regions_on_exchange",
	"6119": "marker",
	"6457": "underlying_conid",
	"6509": "market_data_availability",
	"7051": "company_name",
	"7057": "ask_exch",
	"7058": "last_exch",
	"7059": "last_size",
	"7068": "bid_exch",
	"7084": "implied_vol_hist_vol",
	"7085": "put_call_interest",
	"7086": "put_call_volume",
	"7087": "hist_vol",
	"7088": "hist_vol_close",
	"7089": "opt_volume",
	"7094": "conid_exchange",
	"7219": "contract_description",
	"7220": "contract_description_2",
	"7221": "listing_exchange",
	"7280": "industry",
	"7281": "category",
	"7282": "average_volume",
	"7283": "option_implied_vol",
	"7284": "historic_volume",
	"7285": "put_call_ratio",
	"7286": "dividend_amount",
	"7287": "dividend_yield",
	"7289": "market_cap",
	"7290": "pe",
	"7291": "eps",
	"7293": "week_52_high",
	"7294": "week_52_low",
	"7295": "open",
	"7331": "cost_basis",
	"7635": "mark_price",
	"7678": "spx_delta",
	"7679": "futures_open_interest",
	"7681": "last_yield",
	"7724": "option_open_interest",
	"7741": "prior_close",
}

// byName is the inverse mapping, built once at init.
var byName = func() map[string]string {
	m := make(map[string]string, len(byCode))
	for code, name := range byCode {
		m[name] = code
	}
	return m
}()

// Name returns the semantic name for a numeric field code, or the code itself
// when the catalog has no entry. It never fails and never drops data.
func Name(code string) string {
	if name, ok := byCode[code]; ok {
		return name
	}
	return code
}

// Code returns the numeric code for a semantic field name. The boolean
// reports whether the name is in the catalog.
func Code(name string) (string, bool) {
	code, ok := byName[name]
	return code, ok
}

// Translate rewrites a raw field map, replacing every known numeric code key
// with its semantic name. Unknown keys are kept as-is. The input map is not
// modified.
func Translate(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		out[Name(key)] = value
	}
	return out
}
