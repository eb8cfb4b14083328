// Package history fetches historical OHLCV bars for batches of contracts.
//
// Each contract is one independent single-shot request; a batch fans out
// concurrently with a bounded limit and a failed branch produces a per-
// contract error, never a batch abort.
package history
