// Package watchlist keeps the most recent validated snapshot for a fixed,
// preconfigured instrument set.
//
// The cache is lazily populated and only invalidated by an explicit refresh,
// never by a timer. Freshness wins over availability: when a populate cycle
// fails outright, the cache is left empty rather than serving the previous
// value.
package watchlist
