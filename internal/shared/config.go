package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	MeteoblueBase    string
	MeteoblueKey     string
	TicketmasterBase string
	TicketmasterKey  string
	RatesBase        string
	RatesKey         string
	CompSetIDs       []string

	OpenAIKey   string
	OpenAIModel string

	ProfilePath  string
	GapThreshold float64
	HorizonDays  int
	RadiusKM     int
	DaysAhead    int
	HistoryDays  int
	Workers      int
	HotelIDs     []int64
	CacheTTL     time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/revman?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),

		MeteoblueBase:    env("METEOBLUE_BASE_URL", "https://my.meteoblue.com/packages/basic-day"),
		MeteoblueKey:     env("METEOBLUE_API_KEY", ""),
		TicketmasterBase: env("TICKETMASTER_BASE_URL", "https://app.ticketmaster.com/discovery/v2"),
		TicketmasterKey:  env("TICKETMASTER_API_KEY", ""),
		RatesBase:        env("RATES_BASE_URL", ""),
		RatesKey:         env("RATES_API_KEY", ""),
		CompSetIDs:       splitCSV(env("COMPSET_IDS", "")),

		OpenAIKey:   env("OPENAI_API_KEY", ""),
		OpenAIModel: env("OPENAI_MODEL", "gpt-4o-mini"),

		ProfilePath:  env("HOTEL_PROFILE_PATH", "config/hotel.yaml"),
		GapThreshold: atof("GAP_THRESHOLD", 20),
		HorizonDays:  atoi("HORIZON_DAYS", 1),
		RadiusKM:     atoi("EVENT_RADIUS_KM", 20),
		DaysAhead:    atoi("CONTEXT_DAYS_AHEAD", 30),
		HistoryDays:  atoi("HISTORY_DAYS", 90),
		Workers:      atoi("ANALYZE_WORKERS", 8),
		HotelIDs:     parseIDs(env("HOTEL_IDS", "")),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 10800)) * time.Second,
	}
	if c.MeteoblueKey == "" {
		log.Warn().Msg("METEOBLUE_API_KEY is empty, weather context disabled")
	}
	if c.TicketmasterKey == "" {
		log.Warn().Msg("TICKETMASTER_API_KEY is empty, event context disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIDs splits a comma-separated hotel ID list, skipping blanks and junk.
func parseIDs(s string) []int64 {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Warn().Str("value", part).Msg("skipping non-numeric hotel id")
			continue
		}
		out = append(out, id)
	}
	return out
}
