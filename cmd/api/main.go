package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"revenue_optimizer/internal/adapters/events"
	"revenue_optimizer/internal/adapters/external"
	server "revenue_optimizer/internal/adapters/http_server"
	"revenue_optimizer/internal/adapters/llm"
	"revenue_optimizer/internal/adapters/observability"
	redisad "revenue_optimizer/internal/adapters/redis"
	"revenue_optimizer/internal/adapters/weather"
	"revenue_optimizer/internal/app"
	"revenue_optimizer/internal/domain"
	"revenue_optimizer/internal/shared"
	mysqlrepo "revenue_optimizer/internal/storage/mysql"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	observability.SetGlobal(observability.NewLogger(cfg.AppEnv))

	observability.Serve()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var weatherSrc external.WeatherSource
	if cfg.MeteoblueKey != "" {
		w, err := weather.New(cfg.MeteoblueBase, cfg.MeteoblueKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("weather client init failed")
		}
		weatherSrc = w
	}
	var eventSrc external.EventSource
	if cfg.TicketmasterKey != "" {
		e, err := events.New(cfg.TicketmasterBase, cfg.TicketmasterKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("events client init failed")
		}
		eventSrc = e
	}
	provider := external.NewProvider(weatherSrc, eventSrc, cache, cfg.CacheTTL)

	var completer domain.Completer
	if cfg.OpenAIKey != "" {
		c, err := llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			log.Fatal().Err(err).Msg("openai client init failed")
		}
		completer = c
		log.Info().Str("model", cfg.OpenAIModel).Msg("narrative completion enabled")
	} else {
		log.Info().Msg("OPENAI_API_KEY not set, narratives come from the internal synthesizer")
	}

	profile, err := shared.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.ProfilePath).Msg("hotel profile unavailable, external context disabled")
	}

	analyzer := app.NewAnalyzer(repo, provider, completer, profile, app.Options{
		GapThreshold: cfg.GapThreshold,
		HistoryDays:  cfg.HistoryDays,
		RadiusKM:     cfg.RadiusKM,
		DaysAhead:    cfg.DaysAhead,
	})

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Analyzer: analyzer, Repo: repo, Perf: repo})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
