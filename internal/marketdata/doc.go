// Package marketdata exposes the high-level market data operations:
// ad-hoc snapshots by conid or symbol, the cached watchlist snapshot,
// and historical bars. Every operation renders a well-formed JSON
// document; failures become an {"error": ...} payload instead of a
// partial result.
package marketdata
