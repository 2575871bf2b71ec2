package main

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"revenue_optimizer/internal/adapters/events"
	"revenue_optimizer/internal/adapters/external"
	"revenue_optimizer/internal/adapters/llm"
	"revenue_optimizer/internal/adapters/observability"
	"revenue_optimizer/internal/adapters/rates"
	redisad "revenue_optimizer/internal/adapters/redis"
	"revenue_optimizer/internal/adapters/weather"
	"revenue_optimizer/internal/app"
	"revenue_optimizer/internal/domain"
	"revenue_optimizer/internal/shared"
	mysqlrepo "revenue_optimizer/internal/storage/mysql"
)

// The batch analyzer produces one recommendation per configured hotel using
// the latest recorded performance day as the snapshot.
func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg := shared.Load()

	observability.SetGlobal(observability.NewLogger(cfg.AppEnv))

	if len(cfg.HotelIDs) == 0 {
		log.Fatal().Msg("HOTEL_IDS is empty, nothing to analyze")
	}
	log.Info().
		Int("hotels", len(cfg.HotelIDs)).
		Int("workers", cfg.Workers).
		Int("horizon_days", cfg.HorizonDays).
		Msg("analyzer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var weatherSrc external.WeatherSource
	if cfg.MeteoblueKey != "" {
		if w, err := weather.New(cfg.MeteoblueBase, cfg.MeteoblueKey, 5); err == nil {
			weatherSrc = w
		}
	}
	var eventSrc external.EventSource
	if cfg.TicketmasterKey != "" {
		if e, err := events.New(cfg.TicketmasterBase, cfg.TicketmasterKey, 5); err == nil {
			eventSrc = e
		}
	}
	provider := external.NewProvider(weatherSrc, eventSrc, cache, cfg.CacheTTL)

	var rateProvider domain.RateProvider
	if cfg.RatesBase != "" && cfg.RatesKey != "" && len(cfg.CompSetIDs) > 0 {
		if rc, err := rates.New(cfg.RatesBase, cfg.RatesKey, 5); err == nil {
			rateProvider = rc
		}
	}

	var completer domain.Completer
	if cfg.OpenAIKey != "" {
		if c, err := llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel); err == nil {
			completer = c
		}
	}

	profile, err := shared.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Warn().Err(err).Msg("hotel profile unavailable")
	}

	analyzer := app.NewAnalyzer(repo, provider, completer, profile, app.Options{
		GapThreshold: cfg.GapThreshold,
		HistoryDays:  cfg.HistoryDays,
		RadiusKM:     cfg.RadiusKM,
		DaysAhead:    cfg.DaysAhead,
	})

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range cfg.HotelIDs {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(1)

			snap, err := latestSnapshot(ctx, repo, hotelID)
			if err != nil {
				log.Warn().Int64("id", hotelID).Err(err).Msg("no recent performance data, skipping")
				return
			}

			res, err := analyzer.Analyze(ctx, app.AnalyzeRequest{
				Hotel:       snap,
				Market:      fetchMarket(ctx, rateProvider, cfg.CompSetIDs),
				HorizonDays: cfg.HorizonDays,
			})
			if err != nil {
				log.Warn().Int64("id", hotelID).Err(err).Msg("analysis failed")
				return
			}
			log.Info().
				Int64("id", hotelID).
				Str("strategy", string(res.Recommendation.Strategy)).
				Float64("price", res.Recommendation.RecommendedPrice).
				Float64("confidence", res.Recommendation.ConfidenceScore).
				Msg("analysis ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("analysis run completed")
}

// fetchMarket shops the comp set for tonight. Nil when rate shopping is not
// configured or fails; the analysis then runs without competitive data.
func fetchMarket(ctx context.Context, rp domain.RateProvider, compSet []string) *domain.MarketSnapshot {
	if rp == nil {
		return nil
	}
	checkIn := time.Now().UTC()
	got, err := rp.GetCompetitorPrices(ctx, compSet, checkIn, checkIn.AddDate(0, 0, 1))
	if err != nil {
		log.Warn().Err(err).Msg("rate shopping failed")
		return nil
	}
	if len(got) == 0 {
		return nil
	}
	return &domain.MarketSnapshot{CompetitorPrices: rates.Prices(got)}
}

// latestSnapshot turns the most recent performance row into today's snapshot.
func latestSnapshot(ctx context.Context, repo *mysqlrepo.Repo, hotelID int64) (domain.HotelSnapshot, error) {
	hist, err := repo.LoadHistory(ctx, hotelID, 7)
	if err != nil {
		return domain.HotelSnapshot{}, err
	}
	if len(hist) == 0 {
		return domain.HotelSnapshot{}, domain.ErrNotFound
	}
	last := hist.Sorted()[len(hist)-1]
	return domain.HotelSnapshot{
		HotelID:   hotelID,
		Date:      time.Now().UTC(),
		Occupancy: last.Occupancy,
		Price:     last.Price,
	}, nil
}
