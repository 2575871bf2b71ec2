package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"revenue_optimizer/internal/domain"
)

// The narrative sections are emitted in a fixed order with stable anchors so
// the same patterns extract reliably from text regenerated by an external
// completion model using this template.
var (
	rePrice      = regexp.MustCompile(`(?i)PRIX OPTIMAL RECOMMANDÉ\s*:?\s*(\d+(?:[.,]\d+)?)\s*€`)
	reConfidence = regexp.MustCompile(`(?i)NIVEAU DE CONFIANCE\s*:?\s*(\d+(?:[.,]\d+)?)\s*%`)
	reImpact     = regexp.MustCompile(`(?i)IMPACT ESTIMÉ\s*:?\s*([+-]?\d+(?:[.,]\d+)?)\s*%`)
	reDiagnostic = regexp.MustCompile(`(?is)DIAGNOSTIC\s*:?\s*(.+?)(?:\n\s*\n|PRIX OPTIMAL)`)
	reStrategy   = regexp.MustCompile(`(?im)^STRATÉGIE\s*:\s*(.+)$`)
	reRisk       = regexp.MustCompile(`(?im)^(?:ÉVALUATION DES RISQUES|RISQUES?)\s*:\s*(.+)$`)
	reBullet     = regexp.MustCompile(`(?m)^\s*(?:[-•*]|\d+[.)])\s+(.+)$`)
)

const (
	maxActions      = 5
	minActionLen    = 10 // runes; shorter lines are parsing noise
	fallbackConf    = 0.75
	fallbackRisk    = "Risque modéré"
	fallbackStrName = "Stratégie d'optimisation continue"
)

var fallbackActions = []string{
	"Surveiller les métriques de réservation",
	"Ajuster la tarification si nécessaire",
}

// Render emits the recommendation as structured narrative text. Section
// order and anchors are part of the contract with Extract.
func Render(r domain.Recommendation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "DIAGNOSTIC : %s\n\n", r.Diagnostic)
	fmt.Fprintf(&b, "PRIX OPTIMAL RECOMMANDÉ : %.0f€\n\n", r.RecommendedPrice)
	if r.Justification != "" {
		fmt.Fprintf(&b, "JUSTIFICATION : %s\n\n", r.Justification)
	}
	fmt.Fprintf(&b, "IMPACT ESTIMÉ : %+.1f%% sur le RevPAR\n\n", r.ExpectedImpact)

	b.WriteString("ACTIONS DE SUIVI :\n")
	for _, a := range r.Actions {
		fmt.Fprintf(&b, "- %s\n", a)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "STRATÉGIE : %s\n\n", r.Strategy)
	fmt.Fprintf(&b, "ÉVALUATION DES RISQUES : %s\n\n", r.RiskAssessment)
	fmt.Fprintf(&b, "NIVEAU DE CONFIANCE : %.0f%%\n", r.ConfidenceScore*100)

	return b.String()
}

// Extract recovers a recommendation from narrative text via best-effort
// pattern search. Missing anchors never fail: the price falls back to
// fallbackPrice, confidence to 0.75, impact to zero and the action list to
// two generic monitoring actions. Free-form phrasing from a real generator
// makes partial extraction an expected outcome, not an error.
func Extract(text string, fallbackPrice float64) domain.Recommendation {
	rec := domain.Recommendation{
		RecommendedPrice: fallbackPrice,
		ConfidenceScore:  fallbackConf,
		ExpectedImpact:   0,
		Strategy:         domain.StrategyDailyDefault,
		PricingStrategy:  fallbackStrName,
		RiskAssessment:   fallbackRisk,
		Diagnostic:       strings.TrimSpace(text),
		GeneratedBy:      "llm",
	}

	if m := rePrice.FindStringSubmatch(text); m != nil {
		if v, err := parseNum(m[1]); err == nil {
			rec.RecommendedPrice = v
		}
	}
	if m := reConfidence.FindStringSubmatch(text); m != nil {
		if v, err := parseNum(m[1]); err == nil && v >= 0 && v <= 100 {
			rec.ConfidenceScore = v / 100
		}
	}
	if m := reImpact.FindStringSubmatch(text); m != nil {
		if v, err := parseNum(m[1]); err == nil {
			rec.ExpectedImpact = v
		}
	}
	if m := reDiagnostic.FindStringSubmatch(text); m != nil {
		rec.Diagnostic = strings.TrimSpace(m[1])
	}
	if m := reStrategy.FindStringSubmatch(text); m != nil {
		label := strings.TrimSpace(m[1])
		rec.PricingStrategy = label
		if tag := domain.Strategy(strings.ToLower(label)); domain.ValidStrategy(tag) {
			rec.Strategy = tag
		}
	}
	if m := reRisk.FindStringSubmatch(text); m != nil {
		rec.RiskAssessment = strings.TrimSpace(m[1])
	}

	if actions := extractActions(text); len(actions) > 0 {
		rec.Actions = actions
	} else {
		rec.Actions = append([]string(nil), fallbackActions...)
	}

	return rec
}

// extractActions collects bulleted or numbered lines, deduplicated and
// truncated to five, filtering out fragments shorter than ten characters.
func extractActions(text string) []string {
	matches := reBullet.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		a := strings.TrimSpace(m[1])
		if len([]rune(a)) < minActionLen {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
		if len(out) == maxActions {
			break
		}
	}
	return out
}

func parseNum(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
