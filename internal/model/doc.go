// Package model defines the shared data types of the flat-file market-data
// store: instrument identities (Ticker, Product), calendar dates, intraday
// clock times, and the minute-bar record.
//
// Conventions:
//   - Dates: time.Time at UTC midnight (see Day, ParseDay, FormatDay)
//   - Intraday times: TimeOfDay, whole seconds since midnight
//   - Prices and volumes: float64, matching the on-disk CSV records
package model
