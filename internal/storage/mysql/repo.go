package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"revenue_optimizer/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertDailyPerformance records one day of the hotel's realized performance.
// Occupancy is stored as a [0,1] fraction.
func (r *Repo) UpsertDailyPerformance(ctx context.Context, hotelID int64, stat domain.DayStat) error {
	_, err := r.db.ExecContext(ctx, upsertDailySQL,
		hotelID,
		stat.Date.Format("2006-01-02"),
		stat.Occupancy,
		stat.Price,
		stat.Revenue,
	)
	return err
}

func (r *Repo) LoadHistory(ctx context.Context, hotelID int64, days int) (domain.HistoricalSeries, error) {
	rows, err := r.db.QueryContext(ctx, loadHistorySQL, hotelID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out domain.HistoricalSeries
	for rows.Next() {
		var st domain.DayStat
		if err := rows.Scan(&st.Date, &st.Occupancy, &st.Price, &st.Revenue); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *Repo) SaveRecommendation(ctx context.Context, rec domain.Recommendation) error {
	actions, err := json.Marshal(rec.Actions)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertRecommendationSQL,
		rec.HotelID,
		rec.Date.Format("2006-01-02"),
		string(rec.Strategy),
		rec.RecommendedPrice,
		rec.ConfidenceScore,
		rec.ExpectedImpact,
		rec.Diagnostic,
		rec.Justification,
		string(actions),
		rec.PricingStrategy,
		rec.RiskAssessment,
		rec.GeneratedBy,
	)
	return err
}

func (r *Repo) ListRecommendations(ctx context.Context, hotelID int64, limit int) ([]domain.Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, listRecommendationsSQL, hotelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		var strategy string
		var actionsRaw []byte
		var diagnostic, justification, pricing, risk, generatedBy sql.NullString
		if err := rows.Scan(
			&rec.HotelID,
			&rec.Date,
			&strategy,
			&rec.RecommendedPrice,
			&rec.ConfidenceScore,
			&rec.ExpectedImpact,
			&diagnostic,
			&justification,
			&actionsRaw,
			&pricing,
			&risk,
			&generatedBy,
		); err != nil {
			return nil, err
		}
		rec.Strategy = domain.Strategy(strategy)
		rec.Diagnostic = diagnostic.String
		rec.Justification = justification.String
		rec.PricingStrategy = pricing.String
		rec.RiskAssessment = risk.String
		rec.GeneratedBy = generatedBy.String
		if len(actionsRaw) > 0 {
			_ = json.Unmarshal(actionsRaw, &rec.Actions)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
