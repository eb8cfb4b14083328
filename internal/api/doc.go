// Package api provides the REST client for the IBKR Client Portal Web API.
//
// The client talks to a locally running gateway (default
// https://localhost:5000/v1/api) which holds the brokerage session; no
// credentials travel with individual requests.
//
// Key endpoints:
//   - /iserver/secdef/search       symbol -> contract candidates
//   - /iserver/marketdata/snapshot live field snapshot (subscription-armed;
//     the first call per contract returns no usable price)
//   - /iserver/marketdata/history  historical OHLCV bars
package api
