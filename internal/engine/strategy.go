package engine

import (
	"math"
	"strings"

	"revenue_optimizer/internal/domain"
)

// Occupancy at or below this percentage is an operational crisis.
const crisisOccupancyPct = 30.0

// DefaultGapThreshold is the absolute price gap (currency units) that
// triggers the competitive-gap posture. The source material wavers between
// 15 and 20; we standardize on 20 and keep it configurable in that band.
const DefaultGapThreshold = 20.0

// Horizons longer than this many days are strategic, not tactical.
const strategicHorizonDays = 30

// SelectStrategy classifies a context into exactly one strategy using
// DefaultGapThreshold. Total: a default always applies.
func SelectStrategy(c domain.Context, horizonDays int) domain.Strategy {
	return SelectStrategyWithThreshold(c, horizonDays, DefaultGapThreshold)
}

// SelectStrategyWithThreshold evaluates the ordered rules with a custom gap
// threshold. The order is the design: an occupancy collapse overrides any
// other signal, demand-side events justify premiums regardless of current
// occupancy, and only then do gap and horizon matter.
func SelectStrategyWithThreshold(c domain.Context, horizonDays int, gapThreshold float64) domain.Strategy {
	// 1. Crisis. Skipped (not failed) when occupancy is unknown.
	if c.OccupancyKnown && c.OccupancyPct <= crisisOccupancyPct {
		return domain.StrategyCrisis
	}

	// 2. Special event: any concrete upcoming event.
	if hasEvents(c.Events) {
		return domain.StrategySpecialEvent
	}

	// 3. Competitive gap, only meaningful with comp-set data.
	if gapThreshold <= 0 {
		gapThreshold = DefaultGapThreshold
	}
	if c.Competitors.HasData && math.Abs(c.PriceGap) >= gapThreshold {
		return domain.StrategyCompetitiveGap
	}

	// 4. Long-range planning request.
	if horizonDays > strategicHorizonDays {
		return domain.StrategyStrategicHorizon
	}

	return domain.StrategyDailyDefault
}

// hasEvents ignores blank entries and the textual "no events" markers.
func hasEvents(events []string) bool {
	for _, e := range events {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		switch strings.ToLower(e) {
		case "aucun", "none", "n/a":
			continue
		}
		return true
	}
	return false
}
