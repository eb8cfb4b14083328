// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Snapshot poll attempts and outcomes (valid / no data / transport error)
//   - Symbol resolution failures
//   - Watchlist cache reads by result (hit / populate / empty)
package metrics
