// internal/adapters/events/client.go
package events

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"revenue_optimizer/internal/adapters/httpapi"
	"revenue_optimizer/internal/domain"
)

// Event is one upcoming event near the hotel, normalized across sources.
type Event struct {
	Name     string
	Category string
	Venue    string
	Capacity int
	Date     time.Time
}

// Client searches the Ticketmaster Discovery API for events around a location.
type Client struct {
	base string
	key  string
	api  *httpapi.Client
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("ticketmaster API key is required")
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		api:  httpapi.New("ticketmaster", rps, nil),
	}, nil
}

type discoveryResponse struct {
	Embedded struct {
		Events []struct {
			Name            string `json:"name"`
			Classifications []struct {
				Segment struct {
					Name string `json:"name"`
				} `json:"segment"`
			} `json:"classifications"`
			Dates struct {
				Start struct {
					DateTime  string `json:"dateTime"`
					LocalDate string `json:"localDate"`
				} `json:"start"`
			} `json:"dates"`
			Embedded struct {
				Venues []struct {
					Name     string `json:"name"`
					Capacity int    `json:"capacity"`
				} `json:"venues"`
			} `json:"_embedded"`
		} `json:"events"`
	} `json:"_embedded"`
}

// Search returns upcoming events within radiusKM over the next daysAhead days.
// An empty slice is a normal answer for quiet locations.
func (c *Client) Search(ctx context.Context, lat, lon float64, radiusKM, daysAhead int) ([]Event, error) {
	now := time.Now().UTC()
	q := url.Values{}
	q.Set("apikey", c.key)
	q.Set("latlong", fmt.Sprintf("%.4f,%.4f", lat, lon))
	q.Set("radius", fmt.Sprintf("%d", radiusKM))
	q.Set("unit", "km")
	q.Set("size", "100")
	q.Set("startDateTime", now.Format("2006-01-02T15:04:05Z"))
	q.Set("endDateTime", now.AddDate(0, 0, daysAhead).Format("2006-01-02T15:04:05Z"))

	var resp discoveryResponse
	if err := c.api.GetJSON(ctx, "events", c.base+"/events?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	out := make([]Event, 0, len(resp.Embedded.Events))
	for _, e := range resp.Embedded.Events {
		ev := Event{Name: e.Name}
		if len(e.Classifications) > 0 {
			ev.Category = e.Classifications[0].Segment.Name
		}
		if len(e.Embedded.Venues) > 0 {
			ev.Venue = e.Embedded.Venues[0].Name
			ev.Capacity = e.Embedded.Venues[0].Capacity
		}
		if ts := e.Dates.Start.DateTime; ts != "" {
			ev.Date, _ = time.Parse(time.RFC3339, ts)
		} else if d := e.Dates.Start.LocalDate; d != "" {
			ev.Date, _ = time.Parse("2006-01-02", d)
		}
		out = append(out, ev)
	}
	return out, nil
}

// categoryScores weights event segments by their room-demand pull.
var categoryScores = map[string]float64{
	"Sports":         0.8,
	"Music":          0.7,
	"Arts & Theatre": 0.5,
	"Family":         0.4,
}

const defaultCategoryScore = 0.3

// Score aggregates events into an impact descriptor. Per event the score is
// the mean of its category weight and a capacity factor (normalized at 10000
// seats, 0.3 when unknown); per day the event scores are averaged, and the
// day averages set the band. Confidence grows with the number of events.
func Score(evs []Event) domain.ImpactDescriptor {
	if len(evs) == 0 {
		return domain.NeutralImpact("Aucun événement significatif sur la période")
	}

	byDay := map[string][]float64{}
	for _, e := range evs {
		cs, ok := categoryScores[e.Category]
		if !ok {
			cs = defaultCategoryScore
		}
		capFactor := 0.3
		if e.Capacity > 0 {
			capFactor = math.Min(float64(e.Capacity)/10000, 1)
		}
		day := e.Date.Format("2006-01-02")
		byDay[day] = append(byDay[day], (cs+capFactor)/2)
	}

	var sum float64
	for _, scores := range byDay {
		var daySum float64
		for _, s := range scores {
			daySum += s
		}
		sum += daySum / float64(len(scores))
	}
	avg := sum / float64(len(byDay))

	return domain.ImpactDescriptor{
		Impact:     band(avg),
		Score:      avg,
		Confidence: math.Min(float64(len(evs))*10, 100),
		Summary:    summarize(evs),
	}
}

// Names returns up to n event names, biggest venues first.
func Names(evs []Event, n int) []string {
	sorted := make([]Event, len(evs))
	copy(sorted, evs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Capacity > sorted[j].Capacity })

	var out []string
	for _, e := range sorted {
		if e.Name == "" {
			continue
		}
		out = append(out, e.Name)
		if len(out) == n {
			break
		}
	}
	return out
}

// Events only ever add demand, so the band never goes below neutral.
func band(score float64) string {
	switch {
	case score > 0.7:
		return domain.ImpactVeryFavorable
	case score > 0.5:
		return domain.ImpactFavorable
	default:
		return domain.ImpactNeutral
	}
}

func summarize(evs []Event) string {
	top := Names(evs, 3)
	s := fmt.Sprintf("%d événements sur la période", len(evs))
	if len(top) > 0 {
		s += ", événements majeurs : " + strings.Join(top, ", ")
	}
	return s
}
