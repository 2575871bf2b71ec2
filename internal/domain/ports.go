package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// ExternalContextProvider aggregates weather and event signals for a location.
// Implementations must degrade to neutral descriptors instead of failing:
// a pricing system never goes silent over a missing forecast.
type ExternalContextProvider interface {
	GetExternalContext(ctx context.Context, lat, lon float64, radiusKM, daysAhead int) (ExternalFactors, error)
}

// RateProvider fetches competitor prices for a stay window. An empty slice is
// a valid result (no data); implementations never return nil on success.
type RateProvider interface {
	GetCompetitorPrices(ctx context.Context, ids []string, checkIn, checkOut time.Time) ([]CompetitorRate, error)
}

// Completer is an external text-completion capability. The engine only needs
// the returned string; timeouts are the caller's responsibility.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// RevenueRepository is the caller-side persistence for historical performance
// and produced recommendations. The engine itself never writes.
type RevenueRepository interface {
	LoadHistory(ctx context.Context, hotelID int64, days int) (HistoricalSeries, error)
	SaveRecommendation(ctx context.Context, rec Recommendation) error
	ListRecommendations(ctx context.Context, hotelID int64, limit int) ([]Recommendation, error)
}

// PerformanceStore records observed daily actuals. Callers that report
// occupancy and price feed the same series LoadHistory reads, so trend
// windows improve as the system is used.
type PerformanceStore interface {
	UpsertDailyPerformance(ctx context.Context, hotelID int64, stat DayStat) error
}
