package domain

import (
	"sort"
	"time"
)

// HotelSnapshot is the hotel's operational state for one analysis date.
// OccupancyRate accepts either a [0,1] fraction or a [0,100] percentage;
// the engine normalizes both. Bounds are advisory: violations are tolerated
// and recommendations are clamped instead.
type HotelSnapshot struct {
	HotelID     int64
	Date        time.Time
	Occupancy   float64
	Price       float64
	MinPrice    float64 // 0 = unknown, default band applies
	MaxPrice    float64 // 0 = unknown, default band applies
	TotalRooms  int
	RoomsSold   int
	AvgLeadTime float64 // days
	PickupRate  float64 // new bookings per day
}

// MarketSnapshot carries competitor and demand-side signals. Every field is
// optional; an empty competitor list means "no competitive data", not free rooms.
type MarketSnapshot struct {
	CompetitorPrices []float64
	Events           []string
	Weather          string
	MPI              *float64 // market penetration index
	ARI              *float64 // average rate index
	PriceTrend       string
	OccupancyTrend   string
}

// DayStat is one row of the historical performance series.
type DayStat struct {
	Date      time.Time
	Occupancy float64 // fraction
	Price     float64
	Revenue   float64
}

type HistoricalSeries []DayStat

// Sorted returns a date-ascending copy; windowed statistics require order.
func (h HistoricalSeries) Sorted() HistoricalSeries {
	out := make(HistoricalSeries, len(h))
	copy(out, h)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Tail returns the last n rows, or everything when the series is shorter.
func (h HistoricalSeries) Tail(n int) HistoricalSeries {
	if n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}

// CompetitorRate is one scraped/fetched competitor price point.
type CompetitorRate struct {
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// HotelProfile is the static hotel configuration read once per request.
type HotelProfile struct {
	Name            string
	Category        string
	Location        string
	Latitude        float64
	Longitude       float64
	TotalRooms      int
	MinPrice        float64
	MaxPrice        float64
	RevPARTarget    float64
	ADRTarget       float64
	OccupancyTarget float64 // fraction
}
