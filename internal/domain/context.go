package domain

import "time"

// Impact bands shared by the weather/events/combined descriptors.
const (
	ImpactVeryFavorable   = "très favorable"
	ImpactFavorable       = "favorable"
	ImpactNeutral         = "neutre"
	ImpactUnfavorable     = "défavorable"
	ImpactVeryUnfavorable = "très défavorable"
	ImpactUnknown         = "indéterminé"
)

// ImpactDescriptor quantifies one external factor's expected effect on revenue.
// Score is in [-1,1], Confidence in [0,100].
type ImpactDescriptor struct {
	Impact     string  `json:"impact"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// NeutralImpact is the degraded descriptor used when a collaborator fails.
func NeutralImpact(summary string) ImpactDescriptor {
	return ImpactDescriptor{Impact: ImpactUnknown, Score: 0, Confidence: 0, Summary: summary}
}

// ExternalFactors is the external-context provider's result, merged verbatim
// into the Context so provenance stays traceable.
type ExternalFactors struct {
	Weather    ImpactDescriptor `json:"weather"`
	Events     ImpactDescriptor `json:"events"`
	Combined   ImpactDescriptor `json:"combined_impact"`
	EventNames []string         `json:"event_names,omitempty"`
}

// CompetitorStats holds comp-set statistics. HasData=false is the explicit
// "no data" sentinel; the numeric fields are meaningless in that state.
type CompetitorStats struct {
	HasData     bool
	Average     float64
	Min         float64
	Max         float64
	StdDev      float64
	Rank        int // our price's rank among competitors plus ourselves, 1 = cheapest
	Total       int // competitors plus ourselves
	GapToLeader float64
	Pressure    string // forte | moyenne | faible
	MPI         float64
	ARI         float64
	RGI         float64
}

// Qualitative price positions relative to the competitor average.
const (
	PositionAbove   = "above_average"
	PositionBelow   = "below_average"
	PositionAligned = "aligned"
	PositionNoData  = "no_data"
)

// Trend directions. The dead zone in the slope fit maps noise to stable.
const (
	TrendUp     = "hausse"
	TrendDown   = "baisse"
	TrendStable = "stable"
)

// TrendWindow is one trailing window's summary over the historical series.
type TrendWindow struct {
	Days         int
	AvgOccupancy float64 // percent
	AvgPrice     float64
	Direction    string
}

// Context is the normalized situational record, the sole input to the
// classifier and the calculator. Built once per request, never mutated.
type Context struct {
	HotelName string
	Category  string
	Location  string
	Date      time.Time
	DayOfWeek string
	Season    string

	OccupancyKnown bool
	OccupancyPct   float64 // always a [0,100] percentage
	Price          float64
	RevPAR         float64
	ADR            float64
	RoomsSold      int
	RoomsAvailable int
	PickupRate     float64
	AvgLeadTime    float64

	Competitors   CompetitorStats
	PriceGap      float64 // our price minus competitor average; valid only with HasData
	PricePosition string

	Trends []TrendWindow // empty when no history is available

	Weather  string
	Events   []string
	External *ExternalFactors // nil when the collaborator was unavailable

	MinPrice        float64
	MaxPrice        float64
	RevPARTarget    float64
	OccupancyTarget float64 // fraction
}

// Trend returns the trailing window of the given length, if computed.
func (c Context) Trend(days int) (TrendWindow, bool) {
	for _, t := range c.Trends {
		if t.Days == days {
			return t, true
		}
	}
	return TrendWindow{}, false
}
