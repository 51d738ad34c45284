package model

import "time"

// StockData is the persisted per-ticker market data cache row.
// CurrentPrice is nil when the ticker has only been seen via an overview
// lookup and no quote has been stored yet.
type StockData struct {
	Ticker       string
	CurrentPrice *float64
	Sector       string
	AssetType    string
	LastUpdated  time.Time
}
