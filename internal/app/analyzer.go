package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"revenue_optimizer/internal/adapters/observability"
	"revenue_optimizer/internal/domain"
	"revenue_optimizer/internal/engine"
)

// Options tunes one analyzer instance. Zero values fall back to sane defaults.
type Options struct {
	GapThreshold float64 // currency units, 15-20 band
	HistoryDays  int     // how much history to load for trend windows
	RadiusKM     int     // event search radius around the hotel
	DaysAhead    int     // external-factor lookahead
}

func (o Options) withDefaults() Options {
	if o.GapThreshold <= 0 {
		o.GapThreshold = engine.DefaultGapThreshold
	}
	if o.HistoryDays <= 0 {
		o.HistoryDays = 90
	}
	if o.RadiusKM <= 0 {
		o.RadiusKM = 20
	}
	if o.DaysAhead <= 0 {
		o.DaysAhead = 30
	}
	return o
}

// Analyzer runs one pricing analysis per request: context building,
// classification, calculation and narrative. Collaborators are optional;
// each missing or failing one degrades the context instead of the request.
type Analyzer struct {
	repo      domain.RevenueRepository
	external  domain.ExternalContextProvider
	completer domain.Completer
	profile   *domain.HotelProfile
	opts      Options
}

func NewAnalyzer(repo domain.RevenueRepository, external domain.ExternalContextProvider, completer domain.Completer, profile *domain.HotelProfile, opts Options) *Analyzer {
	return &Analyzer{
		repo:      repo,
		external:  external,
		completer: completer,
		profile:   profile,
		opts:      opts.withDefaults(),
	}
}

// AnalyzeRequest is one request-scoped bundle of inputs. Market is optional.
type AnalyzeRequest struct {
	Hotel       domain.HotelSnapshot
	Market      *domain.MarketSnapshot
	HorizonDays int
}

// AnalysisResult pairs the recommendation with its narrative and the context
// it was derived from, so callers can display or audit the reasoning.
type AnalysisResult struct {
	Recommendation domain.Recommendation `json:"recommendation"`
	Narrative      string                `json:"narrative"`
	Context        domain.Context        `json:"context"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

// Analyze never returns an error for degraded inputs; the worst case is a
// low-confidence recommendation. The returned error is reserved for a
// cancelled context.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}
	if req.HorizonDays <= 0 {
		req.HorizonDays = 1
	}
	if req.Hotel.Date.IsZero() {
		req.Hotel.Date = time.Now().UTC()
	}

	history := a.loadHistory(ctx, req.Hotel.HotelID)
	ext := a.fetchExternal(ctx)

	sc := engine.BuildContext(req.Hotel, req.Market, history, a.profile, ext)
	strategy := engine.SelectStrategyWithThreshold(sc, req.HorizonDays, a.opts.GapThreshold)
	rec := engine.ComputeRecommendation(sc, strategy)

	narrative := engine.Render(rec)
	source := "engine"

	if a.completer != nil {
		if text, err := a.completer.Complete(ctx, engine.BuildPrompt(sc, strategy)); err != nil {
			log.Warn().Err(err).Int64("hotel", req.Hotel.HotelID).Msg("completion failed, using engine narrative")
		} else {
			parsed := engine.Extract(text, sc.Price)
			// The classifier stays authoritative for the tag, and the parsed
			// price goes through the same clamp as every other number.
			parsed.Strategy = strategy
			parsed.RecommendedPrice = engine.ClampPrice(parsed.RecommendedPrice, sc)
			parsed.Date = rec.Date
			rec = parsed
			narrative = text
			source = "llm"
		}
	}

	rec.HotelID = req.Hotel.HotelID
	observability.ObserveAnalysis(string(strategy), source)

	if a.repo != nil {
		if err := a.repo.SaveRecommendation(ctx, rec); err != nil {
			log.Warn().Err(err).Int64("hotel", req.Hotel.HotelID).Msg("save recommendation failed")
		}
	}

	return AnalysisResult{
		Recommendation: rec,
		Narrative:      narrative,
		Context:        sc,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func (a *Analyzer) loadHistory(ctx context.Context, hotelID int64) domain.HistoricalSeries {
	if a.repo == nil || hotelID == 0 {
		return nil
	}
	h, err := a.repo.LoadHistory(ctx, hotelID, a.opts.HistoryDays)
	if err != nil {
		log.Warn().Err(err).Int64("hotel", hotelID).Msg("history unavailable, trends omitted")
		return nil
	}
	return h
}

func (a *Analyzer) fetchExternal(ctx context.Context) *domain.ExternalFactors {
	if a.external == nil || a.profile == nil {
		return nil
	}
	ext, err := a.external.GetExternalContext(ctx, a.profile.Latitude, a.profile.Longitude, a.opts.RadiusKM, a.opts.DaysAhead)
	if err != nil {
		log.Warn().Err(err).Msg("external context unavailable")
		return nil
	}
	return &ext
}
