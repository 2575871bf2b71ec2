// internal/adapters/rates/client.go
package rates

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"revenue_optimizer/internal/adapters/httpapi"
	"revenue_optimizer/internal/domain"
)

// Client fetches competitor prices from the rate-shopping API.
type Client struct {
	base string
	key  string
	api  *httpapi.Client
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("rates base URL is required")
	}
	if key == "" {
		return nil, fmt.Errorf("rates API key is required")
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		api:  httpapi.New("rates", rps, map[string]string{"X-API-Key": key}),
	}, nil
}

type ratesResponse struct {
	Rates []struct {
		HotelID   string  `json:"hotel_id"`
		Price     float64 `json:"price"`
		Currency  string  `json:"currency"`
		Source    string  `json:"source"`
		Timestamp string  `json:"timestamp"`
	} `json:"rates"`
}

// GetCompetitorPrices returns one rate per competitor that has availability
// for the stay window. An empty result is valid; it means no data, and the
// caller's statistics must treat it as such.
func (c *Client) GetCompetitorPrices(ctx context.Context, ids []string, checkIn, checkOut time.Time) ([]domain.CompetitorRate, error) {
	if len(ids) == 0 {
		return []domain.CompetitorRate{}, nil
	}

	q := url.Values{}
	q.Set("hotel_ids", strings.Join(ids, ","))
	q.Set("check_in", checkIn.Format("2006-01-02"))
	q.Set("check_out", checkOut.Format("2006-01-02"))

	var resp ratesResponse
	err := c.api.GetJSON(ctx, "rates", c.base+"/rates?"+q.Encode(), &resp)
	if errors.Is(err, httpapi.ErrNotFound) {
		return []domain.CompetitorRate{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]domain.CompetitorRate, 0, len(resp.Rates))
	for _, r := range resp.Rates {
		if r.Price <= 0 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, r.Timestamp)
		out = append(out, domain.CompetitorRate{
			Price:     r.Price,
			Currency:  r.Currency,
			Source:    r.Source,
			Timestamp: ts,
		})
	}
	return out, nil
}

// Prices flattens rates to the raw price list the context builder consumes.
func Prices(rates []domain.CompetitorRate) []float64 {
	out := make([]float64, 0, len(rates))
	for _, r := range rates {
		out = append(out, r.Price)
	}
	return out
}
