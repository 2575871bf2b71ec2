package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"revenue_optimizer/internal/domain"
)

func TestScore_SunnyWarmWeek(t *testing.T) {
	codes := []int{1, 1, 2, 1, 2}
	temps := []float64{24, 25, 23, 26, 24}
	precip := []float64{0, 5, 0, 10, 0}

	d := Score(codes, temps, precip, 5)
	if d.Impact != domain.ImpactVeryFavorable {
		t.Fatalf("impact = %q, want très favorable (score %.2f)", d.Impact, d.Score)
	}
	if d.Score <= 0.5 {
		t.Fatalf("score = %.2f, want > 0.5", d.Score)
	}
	// consistent forecast, high confidence
	if d.Confidence < 80 {
		t.Fatalf("confidence = %.1f, want >= 80", d.Confidence)
	}
	if !strings.Contains(d.Summary, "dégagé") {
		t.Fatalf("summary = %q", d.Summary)
	}
}

func TestScore_RainyColdWeek(t *testing.T) {
	codes := []int{11, 12, 11, 12}
	temps := []float64{4, 3, 5, 4}
	precip := []float64{85, 90, 80, 75}

	d := Score(codes, temps, precip, 4)
	if d.Impact != domain.ImpactVeryUnfavorable {
		t.Fatalf("impact = %q (score %.2f), want très défavorable", d.Impact, d.Score)
	}
	if d.Score >= -0.5 {
		t.Fatalf("score = %.2f, want < -0.5", d.Score)
	}
}

func TestScore_MixedWeekIsNeutralWithLowerConfidence(t *testing.T) {
	sunny := Score([]int{1, 1, 1, 1}, []float64{24, 24, 24, 24}, nil, 4)
	mixed := Score([]int{1, 12, 1, 12}, []float64{24, 8, 24, 8}, []float64{0, 90, 0, 90}, 4)

	if mixed.Impact == domain.ImpactVeryFavorable || mixed.Impact == domain.ImpactVeryUnfavorable {
		t.Fatalf("mixed impact = %q, want a middle band", mixed.Impact)
	}
	if mixed.Confidence >= sunny.Confidence {
		t.Fatalf("inconsistent forecast should lower confidence: %.1f >= %.1f", mixed.Confidence, sunny.Confidence)
	}
}

func TestScore_EmptyIsNeutral(t *testing.T) {
	d := Score(nil, nil, nil, 5)
	if d.Impact != domain.ImpactUnknown || d.Score != 0 {
		t.Fatalf("got %+v", d)
	}
}

func TestScore_HonorsDaysAhead(t *testing.T) {
	// sunny first 3 days, storm afterwards; a 3-day window must not see the storm
	codes := []int{1, 1, 1, 41, 41, 41, 41}
	temps := []float64{24, 24, 24, 10, 10, 10, 10}

	d := Score(codes, temps, nil, 3)
	if d.Impact != domain.ImpactVeryFavorable {
		t.Fatalf("impact = %q, want très favorable for the 3-day window", d.Impact)
	}
}

func TestForecast_FetchesAndScores(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "k" {
			t.Errorf("apikey missing")
		}
		if r.URL.Query().Get("lat") != "48.8566" {
			t.Errorf("lat = %q", r.URL.Query().Get("lat"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data_day":{
			"time":["2026-09-01","2026-09-02"],
			"pictocode":[1,2],
			"temperature_max":[24,25],
			"precipitation_probability":[0,10]
		}}`))
	}))
	defer ts.Close()

	cl, err := New(ts.URL, "k", 100)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	d, err := cl.Forecast(ctx, 48.8566, 2.3522, 7)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if d.Impact != domain.ImpactVeryFavorable {
		t.Fatalf("impact = %q (score %.2f)", d.Impact, d.Score)
	}
}
