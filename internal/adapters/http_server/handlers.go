// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"revenue_optimizer/internal/app"
	"revenue_optimizer/internal/domain"
	"revenue_optimizer/internal/engine"
)

type Handlers struct {
	Analyzer *app.Analyzer
	Repo     domain.RevenueRepository
	Perf     domain.PerformanceStore
}

var validate = validator.New()

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/hotels/{id}/recommendation", h.recommend)
	s.mux.Get("/v1/hotels/{id}/recommendations", h.listRecommendations)
}

// recommendationRequest is the caller's view of the hotel for one analysis.
// Occupancy accepts either a [0,1] fraction or a [0,100] percentage. Omitted
// fields degrade the analysis instead of rejecting the request; validation
// only rejects values that are nonsense in any convention.
type recommendationRequest struct {
	Date             string    `json:"date" validate:"omitempty,datetime=2006-01-02"`
	OccupancyRate    *float64  `json:"occupancy_rate" validate:"omitempty,gte=0,lte=100"`
	CurrentPrice     float64   `json:"current_price" validate:"omitempty,gte=0"`
	MinPrice         float64   `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice         float64   `json:"max_price" validate:"omitempty,gte=0"`
	TotalRooms       int       `json:"total_rooms" validate:"omitempty,gte=0"`
	RoomsSold        int       `json:"rooms_sold" validate:"omitempty,gte=0"`
	AvgLeadTime      float64   `json:"avg_lead_time" validate:"omitempty,gte=0"`
	PickupRate       float64   `json:"pickup_rate"`
	CompetitorPrices []float64 `json:"competitor_prices"`
	Events           []string  `json:"events"`
	Weather          string    `json:"weather"`
	HorizonDays      int       `json:"horizon_days" validate:"omitempty,gte=1,lte=365"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	hotel := domain.HotelSnapshot{
		HotelID:     id,
		Occupancy:   math.NaN(), // unknown unless provided
		Price:       req.CurrentPrice,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		TotalRooms:  req.TotalRooms,
		RoomsSold:   req.RoomsSold,
		AvgLeadTime: req.AvgLeadTime,
		PickupRate:  req.PickupRate,
	}
	if req.OccupancyRate != nil {
		hotel.Occupancy = *req.OccupancyRate
	}
	if req.Date != "" {
		hotel.Date, _ = time.Parse("2006-01-02", req.Date)
	}

	var market *domain.MarketSnapshot
	if len(req.CompetitorPrices) > 0 || len(req.Events) > 0 || req.Weather != "" {
		market = &domain.MarketSnapshot{
			CompetitorPrices: req.CompetitorPrices,
			Events:           req.Events,
			Weather:          req.Weather,
		}
	}

	res, err := h.Analyzer.Analyze(r.Context(), app.AnalyzeRequest{
		Hotel:       hotel,
		Market:      market,
		HorizonDays: req.HorizonDays,
	})
	if err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Analysis Failed", err.Error())
		return
	}

	h.recordActuals(r.Context(), id, req, res.Recommendation.Date)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("failed to write recommendation body")
	}
}

// recordActuals feeds reported occupancy and price back into the daily series.
// Best effort; an analysis response never fails over a storage hiccup.
func (h *Handlers) recordActuals(ctx context.Context, hotelID int64, req recommendationRequest, day time.Time) {
	if h.Perf == nil || req.OccupancyRate == nil || req.CurrentPrice <= 0 {
		return
	}
	pct, known := engine.NormalizeOccupancy(*req.OccupancyRate)
	if !known {
		return
	}
	stat := domain.DayStat{
		Date:      day,
		Occupancy: pct / 100,
		Price:     req.CurrentPrice,
	}
	if req.TotalRooms > 0 {
		stat.Revenue = req.CurrentPrice * (pct / 100) * float64(req.TotalRooms)
	} else if req.RoomsSold > 0 {
		stat.Revenue = req.CurrentPrice * float64(req.RoomsSold)
	}
	if err := h.Perf.UpsertDailyPerformance(ctx, hotelID, stat); err != nil {
		log.Warn().Err(err).Int64("hotel_id", hotelID).Msg("daily performance upsert failed")
	}
}

func (h *Handlers) listRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	if h.Repo == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "recommendation history is not enabled")
		return
	}
	out, err := h.Repo.ListRecommendations(r.Context(), id, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Storage Error", "could not load recommendations")
		return
	}
	if out == nil {
		out = []domain.Recommendation{}
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write recommendations body")
	}
}
