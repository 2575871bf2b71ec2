package engine_test

import (
	"math"
	"testing"
	"time"

	"revenue_optimizer/internal/domain"
	"revenue_optimizer/internal/engine"
)

func day(offset int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestNormalizeOccupancy_BothConventions(t *testing.T) {
	cases := []struct {
		in    float64
		want  float64
		known bool
	}{
		{0.65, 65, true},
		{65, 65, true},
		{0, 0, true},
		{1, 100, true},
		{1.5, 1.5, true}, // >1 is already a percentage
		{100, 100, true},
		{130, 100, true}, // capped
		{-0.2, 0, false},
		{math.NaN(), 0, false},
	}
	for _, tc := range cases {
		got, known := engine.NormalizeOccupancy(tc.in)
		if known != tc.known || got != tc.want {
			t.Fatalf("NormalizeOccupancy(%v) = (%v, %v), want (%v, %v)", tc.in, got, known, tc.want, tc.known)
		}
	}
}

func TestBuildContext_NormalizationIsIdempotent(t *testing.T) {
	asFraction := engine.BuildContext(domain.HotelSnapshot{Date: day(0), Occupancy: 0.65, Price: 150}, nil, nil, nil, nil)
	asPercent := engine.BuildContext(domain.HotelSnapshot{Date: day(0), Occupancy: 65, Price: 150}, nil, nil, nil, nil)

	if asFraction.OccupancyPct != asPercent.OccupancyPct {
		t.Fatalf("fraction %v vs percent %v", asFraction.OccupancyPct, asPercent.OccupancyPct)
	}
	if asFraction.RevPAR != 150*0.65 {
		t.Fatalf("RevPAR = %v, want %v", asFraction.RevPAR, 150*0.65)
	}
}

func TestBuildContext_EmptyCompetitorsYieldsSentinel(t *testing.T) {
	c := engine.BuildContext(
		domain.HotelSnapshot{Date: day(0), Occupancy: 0.6, Price: 150},
		&domain.MarketSnapshot{CompetitorPrices: nil},
		nil, nil, nil,
	)
	if c.Competitors.HasData {
		t.Fatal("expected HasData=false for empty competitor list")
	}
	if c.PricePosition != domain.PositionNoData {
		t.Fatalf("position = %q, want %q", c.PricePosition, domain.PositionNoData)
	}
}

func TestBuildContext_CompetitorStats(t *testing.T) {
	c := engine.BuildContext(
		domain.HotelSnapshot{Date: day(0), Occupancy: 0.55, Price: 180},
		&domain.MarketSnapshot{CompetitorPrices: []float64{140, 135, 145}},
		nil, nil, nil,
	)
	st := c.Competitors
	if !st.HasData {
		t.Fatal("expected competitor data")
	}
	if st.Average != 140 || st.Min != 135 || st.Max != 145 {
		t.Fatalf("stats = avg %v min %v max %v", st.Average, st.Min, st.Max)
	}
	// All three competitors are cheaper: we rank last.
	if st.Rank != 4 || st.Total != 4 {
		t.Fatalf("rank = %d/%d, want 4/4", st.Rank, st.Total)
	}
	if st.Pressure != "forte" {
		t.Fatalf("pressure = %q, want forte", st.Pressure)
	}
	if c.PriceGap != 40 {
		t.Fatalf("gap = %v, want 40", c.PriceGap)
	}
	if c.PricePosition != domain.PositionAbove {
		t.Fatalf("position = %q", c.PricePosition)
	}
}

func TestBuildContext_PositionDeadband(t *testing.T) {
	// Gap of +8 sits inside the ±10 deadband.
	c := engine.BuildContext(
		domain.HotelSnapshot{Date: day(0), Occupancy: 0.6, Price: 148},
		&domain.MarketSnapshot{CompetitorPrices: []float64{140, 140, 140}},
		nil, nil, nil,
	)
	if c.PricePosition != domain.PositionAligned {
		t.Fatalf("position = %q, want aligned for gap %v", c.PricePosition, c.PriceGap)
	}
}

func TestBuildContext_TrendDirections(t *testing.T) {
	rising := make(domain.HistoricalSeries, 10)
	for i := range rising {
		rising[i] = domain.DayStat{Date: day(i), Occupancy: 0.5 + 0.02*float64(i), Price: 150}
	}
	c := engine.BuildContext(domain.HotelSnapshot{Date: day(10), Occupancy: 0.7, Price: 150}, nil, rising, nil, nil)
	tw, ok := c.Trend(7)
	if !ok {
		t.Fatal("expected a 7-day trend window")
	}
	if tw.Direction != domain.TrendUp {
		t.Fatalf("direction = %q, want hausse", tw.Direction)
	}

	// Noise below the slope dead zone must read as stable.
	flat := make(domain.HistoricalSeries, 10)
	for i := range flat {
		jitter := 0.001 * float64(i%2)
		flat[i] = domain.DayStat{Date: day(i), Occupancy: 0.6 + jitter, Price: 150}
	}
	c = engine.BuildContext(domain.HotelSnapshot{Date: day(10), Occupancy: 0.6, Price: 150}, nil, flat, nil, nil)
	tw, _ = c.Trend(7)
	if tw.Direction != domain.TrendStable {
		t.Fatalf("direction = %q, want stable", tw.Direction)
	}
}

func TestBuildContext_ShortHistoryUsesAllRows(t *testing.T) {
	short := domain.HistoricalSeries{
		{Date: day(1), Occupancy: 0.5, Price: 100},
		{Date: day(0), Occupancy: 0.4, Price: 110}, // out of order on purpose
		{Date: day(2), Occupancy: 0.6, Price: 120},
	}
	c := engine.BuildContext(domain.HotelSnapshot{Date: day(3), Occupancy: 0.6, Price: 120}, nil, short, nil, nil)
	for _, days := range []int{7, 30, 90} {
		tw, ok := c.Trend(days)
		if !ok {
			t.Fatalf("missing %d-day window", days)
		}
		wantAvg := (0.4 + 0.5 + 0.6) / 3 * 100
		if math.Abs(tw.AvgOccupancy-wantAvg) > 1e-9 {
			t.Fatalf("%dd avg occupancy = %v, want %v", days, tw.AvgOccupancy, wantAvg)
		}
	}
}

func TestBuildContext_NoHistoryOmitsTrends(t *testing.T) {
	c := engine.BuildContext(domain.HotelSnapshot{Date: day(0), Occupancy: 0.6, Price: 150}, nil, nil, nil, nil)
	if len(c.Trends) != 0 {
		t.Fatalf("expected no trend windows, got %d", len(c.Trends))
	}
}

func TestBuildContext_ExternalFactorsMergedVerbatim(t *testing.T) {
	ext := &domain.ExternalFactors{
		Weather:    domain.ImpactDescriptor{Impact: domain.ImpactFavorable, Score: 0.4, Confidence: 80},
		Events:     domain.ImpactDescriptor{Impact: domain.ImpactVeryFavorable, Score: 0.8, Confidence: 60},
		Combined:   domain.ImpactDescriptor{Impact: domain.ImpactFavorable, Score: 2.0 / 3.0, Confidence: 70},
		EventNames: []string{"Salon international"},
	}
	c := engine.BuildContext(domain.HotelSnapshot{Date: day(0), Occupancy: 0.6, Price: 150}, nil, nil, nil, ext)
	if c.External == nil {
		t.Fatal("external factors missing from context")
	}
	if c.External.Weather != ext.Weather || c.External.Combined.Score != ext.Combined.Score {
		t.Fatalf("external factors altered: %+v", c.External)
	}
	if len(c.Events) != 1 || c.Events[0] != "Salon international" {
		t.Fatalf("event names not merged: %v", c.Events)
	}
}

func TestBuildContext_ProfileBoundsAndTargets(t *testing.T) {
	p := &domain.HotelProfile{
		Name: "Hôtel Lumière", Category: "4 étoiles",
		MinPrice: 90, MaxPrice: 280, RevPARTarget: 120, OccupancyTarget: 0.75,
	}
	c := engine.BuildContext(domain.HotelSnapshot{Date: day(0), Occupancy: 0.6, Price: 150}, nil, nil, p, nil)
	if c.MinPrice != 90 || c.MaxPrice != 280 {
		t.Fatalf("bounds = [%v,%v]", c.MinPrice, c.MaxPrice)
	}
	if c.HotelName != "Hôtel Lumière" || c.RevPARTarget != 120 {
		t.Fatalf("profile fields missing: %+v", c)
	}

	// Snapshot bounds win over profile bounds when both are present.
	c = engine.BuildContext(domain.HotelSnapshot{Date: day(0), Occupancy: 0.6, Price: 150, MinPrice: 100, MaxPrice: 250}, nil, nil, p, nil)
	if c.MinPrice != 100 || c.MaxPrice != 250 {
		t.Fatalf("snapshot bounds overridden: [%v,%v]", c.MinPrice, c.MaxPrice)
	}
}

func TestBuildContext_NegativeCompetitorPricesFiltered(t *testing.T) {
	c := engine.BuildContext(
		domain.HotelSnapshot{Date: day(0), Occupancy: 0.6, Price: 150},
		&domain.MarketSnapshot{CompetitorPrices: []float64{-10, 140, 160}},
		nil, nil, nil,
	)
	if c.Competitors.Total != 3 { // two valid competitors plus ourselves
		t.Fatalf("total = %d, want 3", c.Competitors.Total)
	}
	if c.Competitors.Average != 150 {
		t.Fatalf("avg = %v, want 150", c.Competitors.Average)
	}
}
