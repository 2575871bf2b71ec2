// internal/adapters/weather/client.go
package weather

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"revenue_optimizer/internal/adapters/httpapi"
	"revenue_optimizer/internal/domain"
)

// Client fetches daily forecasts from the Meteoblue basic-day package and
// turns them into a revenue-impact descriptor.
type Client struct {
	base string
	key  string
	api  *httpapi.Client
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("meteoblue API key is required")
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		api:  httpapi.New("meteoblue", rps, nil),
	}, nil
}

type forecastResponse struct {
	DataDay struct {
		Time                     []string  `json:"time"`
		Pictocode                []int     `json:"pictocode"`
		TemperatureMax           []float64 `json:"temperature_max"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
	} `json:"data_day"`
}

// Forecast returns the impact descriptor for the location over the next
// daysAhead days (capped by what the upstream returns).
func (c *Client) Forecast(ctx context.Context, lat, lon float64, daysAhead int) (domain.ImpactDescriptor, error) {
	q := url.Values{}
	q.Set("apikey", c.key)
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("format", "json")
	q.Set("temperature", "C")
	q.Set("precipitationamount", "mm")
	q.Set("timeformat", "iso8601")

	var resp forecastResponse
	if err := c.api.GetJSON(ctx, "basic-day", c.base+"?"+q.Encode(), &resp); err != nil {
		return domain.ImpactDescriptor{}, err
	}
	return Score(resp.DataDay.Pictocode, resp.DataDay.TemperatureMax, resp.DataDay.PrecipitationProbability, daysAhead), nil
}

// codeScores maps Meteoblue pictocodes to a base [-1,1] demand score.
var codeScores = map[int]float64{
	1: 1.0, 2: 0.8, // dégagé, peu nuageux
	3: 0.6, 4: 0.4, // partiellement nuageux, nuageux
	5: 0.0, 6: -0.2, 7: -0.3, // très nuageux, couvert, brouillard
	10: -0.4, 11: -0.6, 12: -0.8, // pluie
	20: -0.7, 21: -0.8, 22: -1.0, // neige
	30: -0.8, 40: -0.5, 41: -0.9, // mixte, orage possible, orage
}

var codeLabels = map[int]string{
	1: "dégagé", 2: "peu nuageux", 3: "partiellement nuageux", 4: "nuageux",
	5: "très nuageux", 6: "couvert", 7: "brouillard",
	10: "pluie légère", 11: "pluie", 12: "pluie forte",
	20: "neige légère", 21: "neige", 22: "neige forte",
	30: "pluie et neige mêlées", 40: "orage possible", 41: "orage",
}

// Score turns parallel daily arrays into one descriptor. Each day scores
// (code + temperature)/2 plus a precipitation penalty, clamped to [-1,1];
// the window average sets the band and the spread sets the confidence.
func Score(codes []int, tempMax, precipProb []float64, daysAhead int) domain.ImpactDescriptor {
	n := len(codes)
	if daysAhead > 0 && daysAhead < n {
		n = daysAhead
	}
	if n == 0 {
		return domain.NeutralImpact("Données météo non disponibles")
	}

	var scores []float64
	var tempSum float64
	labelCount := map[string]int{}
	for i := 0; i < n; i++ {
		s := codeScores[codes[i]]

		var temp float64 = 20
		if i < len(tempMax) {
			temp = tempMax[i]
		}
		tempSum += temp
		var ts float64
		switch {
		case temp >= 20 && temp <= 28:
			ts = 1
		case (temp >= 15 && temp < 20) || (temp > 28 && temp <= 32):
			ts = 0.5
		case temp > 35 || temp < 5:
			ts = -1
		}

		var precip float64
		if i < len(precipProb) {
			precip = precipProb[i]
		}
		var pi float64
		switch {
		case precip > 70:
			pi = -0.5
		case precip > 40:
			pi = -0.2
		}

		day := (s+ts)/2 + pi
		scores = append(scores, math.Max(-1, math.Min(1, day)))
		if lbl, ok := codeLabels[codes[i]]; ok {
			labelCount[lbl]++
		}
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - avg) * (s - avg)
	}
	std := math.Sqrt(variance / float64(len(scores)))
	confidence := math.Max(0, math.Min(100, 100*(1-std)))

	return domain.ImpactDescriptor{
		Impact:     band(avg),
		Score:      avg,
		Confidence: confidence,
		Summary:    summary(labelCount, tempSum/float64(n)),
	}
}

func band(score float64) string {
	switch {
	case score > 0.5:
		return domain.ImpactVeryFavorable
	case score > 0.2:
		return domain.ImpactFavorable
	case score < -0.5:
		return domain.ImpactVeryUnfavorable
	case score < -0.2:
		return domain.ImpactUnfavorable
	default:
		return domain.ImpactNeutral
	}
}

func summary(labelCount map[string]int, avgTemp float64) string {
	main := "conditions variables"
	best := 0
	for lbl, n := range labelCount {
		if n > best {
			main, best = lbl, n
		}
	}
	return fmt.Sprintf("Principalement %s, température moyenne de %.1f°C", main, avgTemp)
}
