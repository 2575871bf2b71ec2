// Package engine implements the dynamic pricing recommendation core:
// situational context building, strategy classification, price calculation
// and the narrative synthesis/parsing contract. Everything here is a pure
// function of its inputs; collaborator calls happen in internal/app.
package engine

import (
	"math"
	"strings"
	"time"

	"revenue_optimizer/internal/domain"
)

// Deadband around a zero price gap: gaps inside it are "aligned" so the
// position label does not flap on noise.
const positionDeadband = 10.0

// Slope dead zone for the trend fit; smaller slopes are "stable".
const trendDeadZone = 0.01

var trendWindows = []int{7, 30, 90}

// BuildContext merges the hotel snapshot, market snapshot, historical series,
// profile and pre-fetched external factors into one normalized Context.
// Missing optional inputs (nil market, empty history, nil profile, nil ext)
// degrade to a partial context; this function never fails.
func BuildContext(hotel domain.HotelSnapshot, market *domain.MarketSnapshot, history domain.HistoricalSeries, profile *domain.HotelProfile, ext *domain.ExternalFactors) domain.Context {
	c := domain.Context{
		Date:      hotel.Date,
		DayOfWeek: hotel.Date.Weekday().String(),
		Season:    seasonOf(hotel.Date),
		Price:     hotel.Price,
		RoomsSold: hotel.RoomsSold,

		PickupRate:  hotel.PickupRate,
		AvgLeadTime: hotel.AvgLeadTime,

		PricePosition: domain.PositionNoData,
		MinPrice:      hotel.MinPrice,
		MaxPrice:      hotel.MaxPrice,
	}

	c.OccupancyPct, c.OccupancyKnown = NormalizeOccupancy(hotel.Occupancy)
	if c.OccupancyKnown {
		c.RevPAR = hotel.Price * c.OccupancyPct / 100
	}
	// ADR equals the posted price in a single-rate model; rooms sold cancel out.
	c.ADR = hotel.Price
	if hotel.TotalRooms > 0 {
		c.RoomsAvailable = hotel.TotalRooms - hotel.RoomsSold
	}

	if profile != nil {
		c.HotelName = profile.Name
		c.Category = profile.Category
		c.Location = profile.Location
		c.OccupancyTarget = profile.OccupancyTarget
		c.RevPARTarget = profile.RevPARTarget
		if c.MinPrice <= 0 {
			c.MinPrice = profile.MinPrice
		}
		if c.MaxPrice <= 0 {
			c.MaxPrice = profile.MaxPrice
		}
	}

	if market != nil {
		c.Weather = market.Weather
		c.Events = cleanEvents(market.Events)
		c.Competitors = competitorStats(hotel.Price, market)
		if c.Competitors.HasData {
			c.PriceGap = hotel.Price - c.Competitors.Average
			c.PricePosition = pricePosition(c.PriceGap)
		}
	}

	if len(history) > 0 {
		c.Trends = historicalTrends(history)
	}

	if ext != nil {
		// Merged verbatim: the provider's descriptors are not reinterpreted.
		cp := *ext
		c.External = &cp
		if len(cp.EventNames) > 0 {
			c.Events = cleanEvents(append(c.Events, cp.EventNames...))
		}
	}

	return c
}

// NormalizeOccupancy maps either convention ([0,1] fraction or [0,100]
// percentage) onto a percentage. Values above 1 are taken as percentages
// already. NaN, infinite or negative input is "unknown" rather than zero.
func NormalizeOccupancy(v float64) (pct float64, known bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	if v > 1 {
		if v > 100 {
			v = 100
		}
		return v, true
	}
	return v * 100, true
}

func pricePosition(gap float64) string {
	switch {
	case gap > positionDeadband:
		return domain.PositionAbove
	case gap < -positionDeadband:
		return domain.PositionBelow
	default:
		return domain.PositionAligned
	}
}

func competitorStats(ourPrice float64, market *domain.MarketSnapshot) domain.CompetitorStats {
	prices := make([]float64, 0, len(market.CompetitorPrices))
	for _, p := range market.CompetitorPrices {
		if p >= 0 && !math.IsNaN(p) {
			prices = append(prices, p)
		}
	}
	if len(prices) == 0 {
		// Explicit sentinel: HasData=false, not zeros.
		return domain.CompetitorStats{}
	}

	s := domain.CompetitorStats{HasData: true, Min: prices[0], Max: prices[0]}
	var sum float64
	for _, p := range prices {
		sum += p
		if p < s.Min {
			s.Min = p
		}
		if p > s.Max {
			s.Max = p
		}
	}
	s.Average = sum / float64(len(prices))

	var sq float64
	for _, p := range prices {
		d := p - s.Average
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(len(prices)))

	// Our rank among competitors plus ourselves, 1 = cheapest.
	rank := 1
	cheaper := 0
	for _, p := range prices {
		if p <= ourPrice {
			rank++
		}
		if p < ourPrice {
			cheaper++
		}
	}
	s.Rank = rank
	s.Total = len(prices) + 1
	s.GapToLeader = s.Max - ourPrice
	s.Pressure = competitivePressure(cheaper, len(prices))

	mpi, ari := 1.0, 1.0
	if market.MPI != nil {
		mpi = *market.MPI
	}
	if market.ARI != nil {
		ari = *market.ARI
	}
	s.MPI, s.ARI, s.RGI = mpi, ari, mpi*ari

	return s
}

func competitivePressure(cheaper, total int) string {
	if total == 0 {
		return "faible"
	}
	ratio := float64(cheaper) / float64(total)
	switch {
	case ratio > 0.7:
		return "forte"
	case ratio > 0.3:
		return "moyenne"
	default:
		return "faible"
	}
}

func historicalTrends(history domain.HistoricalSeries) []domain.TrendWindow {
	sorted := history.Sorted()
	out := make([]domain.TrendWindow, 0, len(trendWindows))
	for _, days := range trendWindows {
		win := sorted.Tail(days)
		if len(win) == 0 {
			continue
		}
		var occSum, priceSum float64
		occ := make([]float64, len(win))
		for i, d := range win {
			occ[i] = d.Occupancy
			occSum += d.Occupancy
			priceSum += d.Price
		}
		out = append(out, domain.TrendWindow{
			Days:         days,
			AvgOccupancy: occSum / float64(len(win)) * 100,
			AvgPrice:     priceSum / float64(len(win)),
			Direction:    trendDirection(occ),
		})
	}
	return out
}

// trendDirection classifies the sign of a least-squares slope over the
// series, with the dead zone mapping noise to stable.
func trendDirection(values []float64) string {
	if len(values) < 2 {
		return domain.TrendStable
	}
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return domain.TrendStable
	}
	slope := (n*sumXY - sumX*sumY) / denom
	switch {
	case slope > trendDeadZone:
		return domain.TrendUp
	case slope < -trendDeadZone:
		return domain.TrendDown
	default:
		return domain.TrendStable
	}
}

// cleanEvents drops blank entries and duplicates while keeping order.
func cleanEvents(events []string) []string {
	seen := make(map[string]struct{}, len(events))
	out := make([]string, 0, len(events))
	for _, e := range events {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func seasonOf(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "hiver"
	case time.March, time.April, time.May:
		return "printemps"
	case time.June, time.July, time.August:
		return "été"
	default:
		return "automne"
	}
}
