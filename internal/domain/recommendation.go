package domain

import "time"

// Strategy is the pricing posture selected for one situational context.
type Strategy string

const (
	StrategyCrisis           Strategy = "crisis"
	StrategySpecialEvent     Strategy = "special_event"
	StrategyCompetitiveGap   Strategy = "competitive_gap"
	StrategyStrategicHorizon Strategy = "strategic_horizon"
	StrategyDailyDefault     Strategy = "daily_default"
)

// ValidStrategy reports whether s is one of the closed set of tags.
func ValidStrategy(s Strategy) bool {
	switch s {
	case StrategyCrisis, StrategySpecialEvent, StrategyCompetitiveGap,
		StrategyStrategicHorizon, StrategyDailyDefault:
		return true
	}
	return false
}

// Recommendation is the engine's output. Immutable once produced; the caller
// decides whether to persist it. ConfidenceScore is the caller's signal of
// how much to trust the number.
type Recommendation struct {
	HotelID          int64     `json:"hotel_id,omitempty"`
	Date             time.Time `json:"date"`
	Strategy         Strategy  `json:"strategy"`
	RecommendedPrice float64   `json:"recommended_price"`
	ConfidenceScore  float64   `json:"confidence_score"`    // [0,1]
	ExpectedImpact   float64   `json:"expected_impact_pct"` // signed percent
	Diagnostic       string    `json:"diagnostic"`
	Justification    string    `json:"justification,omitempty"`
	Actions          []string  `json:"actions"` // most urgent first
	PricingStrategy  string    `json:"pricing_strategy"`
	RiskAssessment   string    `json:"risk_assessment"`
	GeneratedBy      string    `json:"generated_by,omitempty"` // engine | llm
}
