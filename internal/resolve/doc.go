// Package resolve maps ticker symbols to the gateway's numeric contract IDs.
//
// Resolution is best-effort: a symbol that fails search is logged and
// skipped, never fatal to the batch. Results come back as ordered
// (symbol, conid) pairs so callers keep the correspondence even when some
// symbols fail.
package resolve
