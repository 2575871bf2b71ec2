// internal/adapters/external/provider.go
package external

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"revenue_optimizer/internal/adapters/events"
	"revenue_optimizer/internal/domain"
)

// WeatherSource is what the provider needs from the weather client.
type WeatherSource interface {
	Forecast(ctx context.Context, lat, lon float64, daysAhead int) (domain.ImpactDescriptor, error)
}

// EventSource is what the provider needs from the events client.
type EventSource interface {
	Search(ctx context.Context, lat, lon float64, radiusKM, daysAhead int) ([]events.Event, error)
}

// Provider aggregates weather and event signals into one ExternalFactors
// bundle. A failing source degrades to a neutral descriptor; the provider
// itself only errors on context cancellation.
type Provider struct {
	weather WeatherSource
	events  EventSource
	cache   domain.Cache
	ttl     time.Duration
}

func NewProvider(w WeatherSource, e EventSource, cache domain.Cache, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &Provider{weather: w, events: e, cache: cache, ttl: ttl}
}

func cacheKey(lat, lon float64, radiusKM, daysAhead int) string {
	return fmt.Sprintf("extctx:%.4f:%.4f:%d:%d", lat, lon, radiusKM, daysAhead)
}

func (p *Provider) GetExternalContext(ctx context.Context, lat, lon float64, radiusKM, daysAhead int) (domain.ExternalFactors, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExternalFactors{}, err
	}

	key := cacheKey(lat, lon, radiusKM, daysAhead)
	if p.cache != nil {
		var cached domain.ExternalFactors
		if ok, err := p.cache.Get(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	weather := domain.NeutralImpact("Données météo temporairement indisponibles")
	eventImpact := domain.NeutralImpact("Données événements temporairement indisponibles")
	var names []string

	var wg sync.WaitGroup
	if p.weather != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := p.weather.Forecast(ctx, lat, lon, daysAhead)
			if err != nil {
				log.Warn().Err(err).Msg("weather forecast unavailable")
				return
			}
			weather = d
		}()
	}
	if p.events != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			evs, err := p.events.Search(ctx, lat, lon, radiusKM, daysAhead)
			if err != nil {
				log.Warn().Err(err).Msg("event search unavailable")
				return
			}
			eventImpact = events.Score(evs)
			names = events.Names(evs, 5)
		}()
	}
	wg.Wait()

	out := domain.ExternalFactors{
		Weather:    weather,
		Events:     eventImpact,
		Combined:   Combine(weather, eventImpact),
		EventNames: names,
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, out, int(p.ttl.Seconds())); err != nil {
			log.Warn().Err(err).Msg("external context cache set failed")
		}
	}
	return out, nil
}

// Combine merges the two descriptors, weighting events twice the weather:
// a stadium event fills rooms regardless of drizzle.
func Combine(weather, events domain.ImpactDescriptor) domain.ImpactDescriptor {
	known := 0
	if weather.Impact != domain.ImpactUnknown {
		known++
	}
	if events.Impact != domain.ImpactUnknown {
		known++
	}
	if known == 0 {
		return domain.NeutralImpact("Contexte externe indisponible")
	}

	score := (weather.Score + 2*events.Score) / 3
	conf := (weather.Confidence + events.Confidence) / 2

	return domain.ImpactDescriptor{
		Impact:     band(score),
		Score:      score,
		Confidence: conf,
		Summary:    fmt.Sprintf("Météo : %s. Événements : %s.", weather.Impact, events.Impact),
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
