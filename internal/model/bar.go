package model

import "time"

// DefaultBarInterval is the bar width of the on-disk minute files.
const DefaultBarInterval = 60

// Bar is one candlestick record of a (ticker, trading day) bar file.
type Bar struct {
	Ticker Ticker
	Date   time.Time // trading day, UTC midnight
	Time   TimeOfDay // bar time within the day

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume       float64 // traded volume over the interval
	Price        float64 // last traded price
	OpenInterest float64

	IntervalSeconds int
}
