// Package store is the read side of the flat-file market-data store.
//
// A Store is built once from a data root directory and is immutable
// afterwards: the holiday calendar, most-active-ticker index,
// trading-session index and ticker-info index are loaded eagerly, while
// bar data stays on disk and is resolved lazily per query.
//
// Resolution is a pure function over the loaded indices plus the root
// path. Calls for independent symbols and date ranges share no mutable
// state and may run from any number of goroutines; ReadBarsBulk fans out
// exactly that way. Missing files are never errors: a trading day with no
// data maps to an empty path list.
//
// Data root layout:
//
//	{root}/Data/MostActiveTickers.csv
//	{root}/Release/Data/Holidays.csv
//	{root}/Release/Data/{name}.{tzindex}/TradingSession.csv
//	{root}/Release/Data/{name}.{tzindex}/GeneralTickerInfo.csv
//	{root}/BarData/60/{Prefix}/{YYYYMMDD}/{TickerName}.csv
//
// (Debug/Data substitutes for Release/Data when only the former exists.)
package store
