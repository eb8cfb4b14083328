// Package snapshot implements the poll-until-valid loop over the gateway's
// live market-data endpoint.
//
// The first snapshot request per contract only arms a subscription; live
// fields appear on later calls. The poller re-requests with a fixed delay up
// to a bounded attempt count and releases a snapshot only once it carries at
// least one real price. Attempts are strictly sequential: overlapping
// requests for the same contracts risk undefined subscription state.
package snapshot
