// Package model defines shared data types for the IBKR market-data core.
//
// Conventions:
//   - Instrument identity: ConID, the numeric contract ID every data
//     operation keys on internally
//   - Snapshot values: strings as delivered by the gateway ("N/A" is a
//     placeholder, not data); unrecognized field codes pass through in the
//     Extra bag
//   - Bar prices: decimal.Decimal to avoid float drift in OHLC data
package model
