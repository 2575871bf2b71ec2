package engine

import (
	"fmt"
	"strings"

	"revenue_optimizer/internal/domain"
)

// SystemPrompt frames the completion model as a revenue manager and pins the
// response format to the anchors Extract knows how to find.
const SystemPrompt = `Vous êtes un Revenue Manager IA spécialisé dans l'hôtellerie : analyse prédictive de la demande, optimisation dynamique des prix, analyse concurrentielle, maximisation du RevPAR.

PRINCIPES DIRECTEURS :
1. Baser chaque recommandation sur les données fournies
2. Quantifier les impacts attendus (RevPAR, occupation)
3. Proposer des actions concrètes et priorisées
4. Indiquer un niveau de confiance

FORMAT DE RÉPONSE OBLIGATOIRE, dans cet ordre exact :
DIAGNOSTIC : <3-4 phrases>
PRIX OPTIMAL RECOMMANDÉ : <nombre>€
JUSTIFICATION : <facteurs déterminants>
IMPACT ESTIMÉ : <+/-nombre>% sur le RevPAR
ACTIONS DE SUIVI :
- <action la plus urgente>
- <actions suivantes>
STRATÉGIE : <libellé de stratégie>
ÉVALUATION DES RISQUES : <1-2 phrases>
NIVEAU DE CONFIANCE : <nombre>%`

// BuildPrompt renders the situational context as the user prompt for the
// external completion path. Sections mirror the strategy the classifier
// picked so the model reasons within the right posture.
func BuildPrompt(c domain.Context, strategy domain.Strategy) string {
	var b strings.Builder

	fmt.Fprintf(&b, "MISSION : %s\n\n", missionFor(strategy))

	b.WriteString("SITUATION ACTUELLE :\n")
	if c.HotelName != "" {
		fmt.Fprintf(&b, "- Hôtel : %s (%s)\n", c.HotelName, c.Category)
	}
	fmt.Fprintf(&b, "- Date : %s (%s, %s)\n", c.Date.Format("2006-01-02"), c.DayOfWeek, c.Season)
	if c.OccupancyKnown {
		fmt.Fprintf(&b, "- Taux d'occupation : %.1f%%\n", c.OccupancyPct)
	} else {
		b.WriteString("- Taux d'occupation : inconnu\n")
	}
	fmt.Fprintf(&b, "- Prix actuel : %.0f€\n", c.Price)
	fmt.Fprintf(&b, "- RevPAR : %.2f€\n", c.RevPAR)
	if c.PickupRate > 0 {
		fmt.Fprintf(&b, "- Pick-up rate : %.1f réservations/jour\n", c.PickupRate)
	}
	if c.AvgLeadTime > 0 {
		fmt.Fprintf(&b, "- Lead time moyen : %.0f jours\n", c.AvgLeadTime)
	}

	b.WriteString("\nANALYSE CONCURRENTIELLE :\n")
	if c.Competitors.HasData {
		fmt.Fprintf(&b, "- Prix moyen comp set : %.2f€ (min %.2f€, max %.2f€, écart-type %.2f€)\n",
			c.Competitors.Average, c.Competitors.Min, c.Competitors.Max, c.Competitors.StdDev)
		fmt.Fprintf(&b, "- Notre rang : %d/%d, écart à la moyenne : %+.0f€ (%s)\n",
			c.Competitors.Rank, c.Competitors.Total, c.PriceGap, c.PricePosition)
		fmt.Fprintf(&b, "- Pression concurrentielle : %s, RGI %.2f\n", c.Competitors.Pressure, c.Competitors.RGI)
	} else {
		b.WriteString("- Aucune donnée concurrentielle disponible\n")
	}

	if len(c.Trends) > 0 {
		b.WriteString("\nTENDANCES HISTORIQUES :\n")
		for _, t := range c.Trends {
			fmt.Fprintf(&b, "- %dj : occupation moyenne %.1f%%, prix moyen %.2f€, tendance %s\n",
				t.Days, t.AvgOccupancy, t.AvgPrice, t.Direction)
		}
	}

	b.WriteString("\nCONTEXTE EXTERNE :\n")
	if c.Weather != "" {
		fmt.Fprintf(&b, "- Météo : %s\n", c.Weather)
	}
	if len(c.Events) > 0 {
		fmt.Fprintf(&b, "- Événements : %s\n", strings.Join(c.Events, ", "))
	} else {
		b.WriteString("- Événements : aucun\n")
	}
	if c.External != nil {
		fmt.Fprintf(&b, "- Impact météo : %s (score %.2f, confiance %.0f%%)\n",
			c.External.Weather.Impact, c.External.Weather.Score, c.External.Weather.Confidence)
		fmt.Fprintf(&b, "- Impact événements : %s (score %.2f, confiance %.0f%%)\n",
			c.External.Events.Impact, c.External.Events.Score, c.External.Events.Confidence)
		fmt.Fprintf(&b, "- Impact combiné : %s (score %.2f)\n",
			c.External.Combined.Impact, c.External.Combined.Score)
	}

	b.WriteString("\nCONTRAINTES BUSINESS :\n")
	fmt.Fprintf(&b, "- Prix plancher : %.0f€, prix plafond : %.0f€\n", c.MinPrice, c.MaxPrice)
	if c.RevPARTarget > 0 {
		fmt.Fprintf(&b, "- Objectif RevPAR : %.0f€, objectif occupation : %.0f%%\n",
			c.RevPARTarget, c.OccupancyTarget*100)
	}

	return b.String()
}

func missionFor(s domain.Strategy) string {
	switch s {
	case domain.StrategyCrisis:
		return "élaborer une stratégie de réponse rapide à un effondrement d'occupation"
	case domain.StrategySpecialEvent:
		return "optimiser la stratégie tarifaire face à la demande événementielle"
	case domain.StrategyCompetitiveGap:
		return "corriger le positionnement tarifaire face au comp set"
	case domain.StrategyStrategicHorizon:
		return "définir la trajectoire revenue à moyen et long terme"
	default:
		return "analyser la situation et recommander le prix optimal du jour"
	}
}
