package engine

import (
	"fmt"
	"math"

	"revenue_optimizer/internal/domain"
)

// Per-strategy confidence levels. The degraded value applies when a formula's
// required input was missing and the daily fallback ran instead.
const (
	confidenceCrisis    = 0.85
	confidenceEvent     = 0.92
	confidenceGap       = 0.89
	confidenceDaily     = 0.87
	confidenceStrategic = 0.80
	confidenceDegraded  = 0.70
)

// Default clamp band applied when no explicit bounds are configured:
// a conservative 50%-200% corridor around the current price.
const (
	defaultMinFactor = 0.5
	defaultMaxFactor = 2.0
)

// ComputeRecommendation applies the formula associated with the selected
// strategy and returns a complete recommendation. It never fails: missing
// inputs route through the daily formula with degraded confidence, and the
// final price is always clamped into the allowed band.
func ComputeRecommendation(c domain.Context, strategy domain.Strategy) domain.Recommendation {
	rec := domain.Recommendation{
		Date:        c.Date,
		Strategy:    strategy,
		GeneratedBy: "engine",
	}

	// No usable current price: substitute the best available anchor and run
	// the degraded daily path whatever the strategy asked for.
	if c.Price <= 0 {
		if c.Competitors.HasData {
			c.Price = c.Competitors.Average
		} else if c.MinPrice > 0 {
			c.Price = c.MinPrice
		}
		lo, hi := bounds(c)
		computeDailyFallback(c, &rec, "prix courant manquant")
		rec.RecommendedPrice = clamp(rec.RecommendedPrice, lo, hi)
		return rec
	}

	lo, hi := bounds(c)

	switch strategy {
	case domain.StrategyCrisis:
		computeCrisis(c, lo, &rec)
	case domain.StrategySpecialEvent:
		computeSpecialEvent(c, hi, &rec)
	case domain.StrategyCompetitiveGap:
		if !c.Competitors.HasData {
			computeDailyFallback(c, &rec, "données concurrentielles indisponibles")
			break
		}
		computeCompetitiveGap(c, &rec)
	case domain.StrategyStrategicHorizon:
		if c.RevPARTarget <= 0 || c.OccupancyTarget <= 0 {
			computeDailyFallback(c, &rec, "objectifs annuels non configurés")
			break
		}
		computeStrategicHorizon(c, &rec)
	default:
		if !c.OccupancyKnown {
			computeDailyFallback(c, &rec, "taux d'occupation inconnu")
			break
		}
		computeDaily(c, &rec)
	}

	rec.RecommendedPrice = clamp(rec.RecommendedPrice, lo, hi)
	return rec
}

func computeCrisis(c domain.Context, lo float64, rec *domain.Recommendation) {
	rec.RecommendedPrice = math.Max(c.Price*0.70, lo)
	rec.ConfidenceScore = confidenceCrisis
	rec.ExpectedImpact = 15.0
	rec.Diagnostic = fmt.Sprintf("Situation critique avec occupation de %.1f%%. Action immédiate requise pour stimuler la demande.", c.OccupancyPct)
	rec.Justification = fmt.Sprintf("Réduction substantielle du prix actuel de %.0f€ nécessaire pour relancer les réservations. Stratégie de récupération rapide d'occupation.", c.Price)
	rec.Actions = []string{
		"Mise en place immédiate du nouveau prix",
		"Campagne promotionnelle flash 48h",
		"Contact direct des anciens clients",
		"Surveillance intensive des réservations",
	}
	rec.PricingStrategy = "Stratégie de crise : prix agressif pour relancer l'occupation"
	rec.RiskAssessment = "Risque de dilution tarifaire accepté face au risque d'inventaire invendu"
}

func computeSpecialEvent(c domain.Context, hi float64, rec *domain.Recommendation) {
	premium := 1.10
	eventText := "contexte favorable"
	if len(c.Events) > 0 {
		premium = 1.20
		eventText = "présence de " + joinEvents(c.Events)
	}
	rec.RecommendedPrice = math.Min(c.Price*premium, hi)
	rec.ConfidenceScore = confidenceEvent
	rec.ExpectedImpact = 8.5
	rec.Diagnostic = fmt.Sprintf("Situation favorable avec %s. Opportunité d'optimisation tarifaire détectée.", eventText)
	rec.Justification = fmt.Sprintf("La %s justifie un premium événementiel. Augmentation de %.0f€ à %.0f€ recommandée.", eventText, c.Price, rec.RecommendedPrice)
	rec.Actions = []string{
		"Application du premium dès maintenant",
		"Communication sur la valeur ajoutée",
		"Surveillance de la conversion",
		"Ajustement si résistance détectée",
	}
	rec.PricingStrategy = "Stratégie événementielle : premium sur la demande additionnelle"
	rec.RiskAssessment = "Risque limité : la demande événementielle absorbe le premium"
}

func computeCompetitiveGap(c domain.Context, rec *domain.Recommendation) {
	gap := c.PriceGap
	var move string
	if gap > 0 {
		// We are above market: converge halfway down.
		rec.RecommendedPrice = c.Price - 0.5*math.Abs(gap)
		move = "réduction pour améliorer la compétitivité"
	} else {
		// Below market: converge more conservatively, raising price risks
		// occupancy loss more than lowering it.
		rec.RecommendedPrice = c.Price + 0.3*math.Abs(gap)
		move = "augmentation modérée pour optimiser sans perdre l'avantage"
	}
	rec.ConfidenceScore = confidenceGap
	rec.ExpectedImpact = 6.2
	rec.Diagnostic = fmt.Sprintf("Analyse concurrentielle révèle un écart de %+.0f€ avec la moyenne marché (%.0f€).", gap, c.Competitors.Average)
	rec.Justification = fmt.Sprintf("%s. Positionnement optimal entre compétitivité et rentabilité.", capitalize(move))
	rec.Actions = []string{
		"Ajustement tarifaire progressif",
		"Monitoring réaction concurrentielle",
		"Analyse des taux de conversion",
		"Veille prix continue",
	}
	rec.PricingStrategy = "Stratégie concurrentielle : convergence partielle vers le marché"
	rec.RiskAssessment = "Risque modéré : repositionnement progressif et réversible"
}

func computeStrategicHorizon(c domain.Context, rec *domain.Recommendation) {
	// Directional target: the rate that would hit the annual RevPAR target at
	// the target occupancy, blended with today's price to avoid a step change.
	targetPrice := c.RevPARTarget / c.OccupancyTarget
	rec.RecommendedPrice = (targetPrice + c.Price) / 2

	trailing := c.RevPAR
	if t, ok := c.Trend(30); ok && t.AvgOccupancy > 0 {
		trailing = t.AvgPrice * t.AvgOccupancy / 100
	}
	impact := 0.0
	if trailing > 0 {
		impact = (c.RevPARTarget - trailing) / trailing * 100
		impact = clamp(impact, -25, 25)
	}
	rec.ConfidenceScore = confidenceStrategic
	rec.ExpectedImpact = round1(impact)
	rec.Diagnostic = fmt.Sprintf("Planification long terme : RevPAR courant %.2f€ contre objectif %.2f€.", trailing, c.RevPARTarget)
	rec.Justification = fmt.Sprintf("Trajectoire tarifaire vers %.0f€ pour atteindre l'objectif RevPAR annuel à %.0f%% d'occupation cible.", targetPrice, c.OccupancyTarget*100)
	rec.Actions = []string{
		"Définir les jalons tarifaires à 30, 60 et 90 jours",
		"Revue mensuelle de la performance RevPAR contre objectif",
		"Ajuster la trajectoire selon la saisonnalité observée",
		"Consolider la veille concurrentielle long terme",
	}
	rec.PricingStrategy = "Stratégie long terme : trajectoire vers l'objectif RevPAR annuel"
	rec.RiskAssessment = "Risque faible : ajustements graduels pilotés par jalons"
}

func computeDaily(c domain.Context, rec *domain.Recommendation) {
	occ := c.OccupancyPct
	var move string
	switch {
	case occ < 50:
		rec.RecommendedPrice = c.Price * 0.95
		rec.ExpectedImpact = 4.2
		move = "légère réduction pour stimuler la demande"
	case occ > 80:
		rec.RecommendedPrice = c.Price * 1.05
		rec.ExpectedImpact = 6.8
		move = "optimisation à la hausse vu la forte demande"
	default:
		rec.RecommendedPrice = c.Price + 5
		rec.ExpectedImpact = 5.7
		move = "augmentation modérée pour optimiser le RevPAR"
	}
	rec.ConfidenceScore = confidenceDaily
	rec.Diagnostic = fmt.Sprintf("Situation équilibrée avec occupation de %.1f%%. Optimisation tarifaire possible.", occ)
	rec.Justification = fmt.Sprintf("%s. Le marché permet cette optimisation sans risque majeur sur l'occupation.", capitalize(move))
	rec.Actions = []string{
		"Surveillance du booking pace sur 48h",
		"Ajustement si résistance client détectée",
		"Monitoring de la réaction concurrentielle",
	}
	rec.PricingStrategy = "Stratégie quotidienne : optimisation par bande d'occupation"
	rec.RiskAssessment = "Risque standard : variation contenue autour du prix courant"
}

// computeDailyFallback is the degraded path for any strategy whose required
// numeric input is missing: mid-band daily formula, lowered confidence, and a
// risk text that names the data gap.
func computeDailyFallback(c domain.Context, rec *domain.Recommendation, reason string) {
	if c.OccupancyKnown {
		computeDaily(c, rec)
	} else {
		rec.RecommendedPrice = c.Price + 5
		rec.ExpectedImpact = 5.7
		rec.Diagnostic = "Données partielles : optimisation prudente appliquée."
		rec.Justification = "Augmentation modérée par défaut en l'absence de signal fiable."
		rec.Actions = []string{
			"Surveiller les métriques de réservation",
			"Ajuster la tarification si nécessaire",
		}
		rec.PricingStrategy = "Stratégie quotidienne : optimisation par bande d'occupation"
	}
	rec.ConfidenceScore = confidenceDegraded
	rec.RiskAssessment = "Recommandation dégradée : " + reason
}

// ClampPrice constrains an externally produced price to the same band the
// calculator applies to its own output.
func ClampPrice(price float64, c domain.Context) float64 {
	lo, hi := bounds(c)
	return clamp(price, lo, hi)
}

// bounds returns the clamp band, falling back to the default corridor around
// the current price when either bound is absent or inconsistent.
func bounds(c domain.Context) (lo, hi float64) {
	lo, hi = c.MinPrice, c.MaxPrice
	if lo <= 0 {
		lo = c.Price * defaultMinFactor
	}
	if hi <= 0 {
		hi = c.Price * defaultMaxFactor
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}

func joinEvents(events []string) string {
	out := ""
	for i, e := range events {
		if i > 0 {
			out += ", "
		}
		out += e
	}
	return out
}
