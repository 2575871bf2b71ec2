package engine_test

import (
	"math"
	"strings"
	"testing"

	"revenue_optimizer/internal/domain"
	"revenue_optimizer/internal/engine"
)

func TestRender_ContainsStableAnchors(t *testing.T) {
	rec := domain.Recommendation{
		Strategy:         domain.StrategyCrisis,
		RecommendedPrice: 98,
		ConfidenceScore:  0.85,
		ExpectedImpact:   15,
		Diagnostic:       "Situation critique avec occupation de 25.0%.",
		Actions:          []string{"Mise en place immédiate du nouveau prix"},
		RiskAssessment:   "Risque de dilution tarifaire accepté",
	}
	text := engine.Render(rec)

	for _, anchor := range []string{
		"PRIX OPTIMAL RECOMMANDÉ : 98€",
		"NIVEAU DE CONFIANCE : 85%",
		"IMPACT ESTIMÉ : +15.0%",
		"DIAGNOSTIC :",
		"ACTIONS DE SUIVI :",
		"STRATÉGIE : crisis",
	} {
		if !strings.Contains(text, anchor) {
			t.Fatalf("rendered text missing %q:\n%s", anchor, text)
		}
	}

	// Section order is part of the contract.
	order := []string{"DIAGNOSTIC", "PRIX OPTIMAL RECOMMANDÉ", "IMPACT ESTIMÉ", "ACTIONS DE SUIVI", "STRATÉGIE", "NIVEAU DE CONFIANCE"}
	last := -1
	for _, section := range order {
		i := strings.Index(text, section)
		if i <= last {
			t.Fatalf("section %q out of order", section)
		}
		last = i
	}
}

func TestRoundTrip_AllStrategies(t *testing.T) {
	recs := []domain.Recommendation{
		{
			Strategy: domain.StrategyCrisis, RecommendedPrice: 98, ConfidenceScore: 0.85, ExpectedImpact: 15,
			Diagnostic: "Situation critique avec occupation de 25.0%. Action immédiate requise.",
			Actions:    []string{"Mise en place immédiate du nouveau prix", "Campagne promotionnelle flash 48h"},
			RiskAssessment: "Risque de dilution tarifaire accepté",
		},
		{
			Strategy: domain.StrategySpecialEvent, RecommendedPrice: 240, ConfidenceScore: 0.92, ExpectedImpact: 8.5,
			Diagnostic: "Situation favorable avec présence de Salon international.",
			Actions:    []string{"Application du premium dès maintenant", "Surveillance de la conversion"},
			RiskAssessment: "Risque limité",
		},
		{
			Strategy: domain.StrategyCompetitiveGap, RecommendedPrice: 160, ConfidenceScore: 0.89, ExpectedImpact: 6.2,
			Diagnostic: "Analyse concurrentielle révèle un écart de +40€.",
			Actions:    []string{"Ajustement tarifaire progressif", "Veille prix continue et systématique"},
			RiskAssessment: "Risque modéré : repositionnement progressif",
		},
		{
			Strategy: domain.StrategyDailyDefault, RecommendedPrice: 155, ConfidenceScore: 0.87, ExpectedImpact: 5.7,
			Diagnostic: "Situation équilibrée avec occupation de 65.0%.",
			Actions:    []string{"Surveillance du booking pace sur 48h", "Monitoring de la réaction concurrentielle"},
			RiskAssessment: "Risque standard",
		},
	}

	for _, rec := range recs {
		got := engine.Extract(engine.Render(rec), 999)

		if got.RecommendedPrice != rec.RecommendedPrice {
			t.Fatalf("%s: price %v, want %v", rec.Strategy, got.RecommendedPrice, rec.RecommendedPrice)
		}
		if math.Abs(got.ConfidenceScore-rec.ConfidenceScore) > 0.005 {
			t.Fatalf("%s: confidence %v, want %v", rec.Strategy, got.ConfidenceScore, rec.ConfidenceScore)
		}
		if math.Abs(got.ExpectedImpact-rec.ExpectedImpact) > 0.05 {
			t.Fatalf("%s: impact %v, want %v", rec.Strategy, got.ExpectedImpact, rec.ExpectedImpact)
		}
		if got.Strategy != rec.Strategy {
			t.Fatalf("strategy %q, want %q", got.Strategy, rec.Strategy)
		}
		if got.Diagnostic != rec.Diagnostic {
			t.Fatalf("%s: diagnostic %q, want %q", rec.Strategy, got.Diagnostic, rec.Diagnostic)
		}
		if len(got.Actions) != len(rec.Actions) {
			t.Fatalf("%s: actions %v, want %v", rec.Strategy, got.Actions, rec.Actions)
		}
		for i := range got.Actions {
			if got.Actions[i] != rec.Actions[i] {
				t.Fatalf("%s: action[%d] = %q, want %q", rec.Strategy, i, got.Actions[i], rec.Actions[i])
			}
		}
		if got.RiskAssessment != rec.RiskAssessment {
			t.Fatalf("%s: risk %q, want %q", rec.Strategy, got.RiskAssessment, rec.RiskAssessment)
		}
	}
}

func TestExtract_MissingAnchorsNeverFail(t *testing.T) {
	got := engine.Extract("réponse libre sans aucune structure exploitable", 150)

	if got.RecommendedPrice != 150 {
		t.Fatalf("price = %v, want fallback 150", got.RecommendedPrice)
	}
	if got.ConfidenceScore < 0.7 || got.ConfidenceScore > 0.8 {
		t.Fatalf("confidence = %v, want in [0.7,0.8]", got.ConfidenceScore)
	}
	if got.ExpectedImpact != 0 {
		t.Fatalf("impact = %v, want 0", got.ExpectedImpact)
	}
	if len(got.Actions) != 2 {
		t.Fatalf("actions = %v, want the two generic monitoring actions", got.Actions)
	}
}

func TestExtract_FreeFormVariants(t *testing.T) {
	text := `Voici mon analyse.

DIAGNOSTIC : Demande soutenue sur la période.

prix optimal recommandé : 172,50€

IMPACT ESTIMÉ : -2.5% sur le RevPAR

ACTIONS DE SUIVI :
1. Réviser la grille tarifaire du week-end
2) Surveiller les annulations de dernière minute
- ok
- Réviser la grille tarifaire du week-end

NIVEAU DE CONFIANCE : 78%`

	got := engine.Extract(text, 150)
	if got.RecommendedPrice != 172.5 {
		t.Fatalf("price = %v, want 172.5", got.RecommendedPrice)
	}
	if got.ExpectedImpact != -2.5 {
		t.Fatalf("impact = %v, want -2.5", got.ExpectedImpact)
	}
	if got.ConfidenceScore != 0.78 {
		t.Fatalf("confidence = %v, want 0.78", got.ConfidenceScore)
	}
	// "ok" is noise (<10 chars) and the duplicate line is dropped.
	if len(got.Actions) != 2 {
		t.Fatalf("actions = %v", got.Actions)
	}
}

func TestExtract_ActionsTruncatedToFive(t *testing.T) {
	text := `ACTIONS DE SUIVI :
- première action de suivi
- deuxième action de suivi
- troisième action de suivi
- quatrième action de suivi
- cinquième action de suivi
- sixième action de suivi`
	got := engine.Extract(text, 100)
	if len(got.Actions) != 5 {
		t.Fatalf("actions = %d, want 5", len(got.Actions))
	}
}

func TestBuildPrompt_CarriesContextAndFormat(t *testing.T) {
	c := engine.BuildContext(
		domain.HotelSnapshot{Date: day(0), Occupancy: 0.55, Price: 180, MinPrice: 80, MaxPrice: 300},
		&domain.MarketSnapshot{CompetitorPrices: []float64{140, 135, 145}, Weather: "Ensoleillé"},
		nil, nil, nil,
	)
	prompt := engine.BuildPrompt(c, domain.StrategyCompetitiveGap)

	for _, want := range []string{"180€", "140.00€", "Ensoleillé", "comp set", "Prix plancher : 80€"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if !strings.Contains(engine.SystemPrompt, "PRIX OPTIMAL RECOMMANDÉ") {
		t.Fatal("system prompt must pin the response anchors")
	}
}
