package mysql

const upsertDailySQL = `
INSERT INTO daily_performance
  (hotel_id, day, occupancy, price, revenue)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  occupancy  = VALUES(occupancy),
  price      = VALUES(price),
  revenue    = VALUES(revenue),
  updated_at = CURRENT_TIMESTAMP
`

const loadHistorySQL = `
SELECT day, occupancy, price, revenue
FROM daily_performance
WHERE hotel_id = ?
  AND day >= DATE_SUB(CURDATE(), INTERVAL ? DAY)
ORDER BY day
`

const insertRecommendationSQL = `
INSERT INTO recommendations
  (hotel_id, day, strategy, recommended_price, confidence, expected_impact,
   diagnostic, justification, actions, pricing_strategy, risk_assessment, generated_by)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listRecommendationsSQL = `
SELECT hotel_id, day, strategy, recommended_price, confidence, expected_impact,
       diagnostic, justification, actions, pricing_strategy, risk_assessment, generated_by
FROM recommendations
WHERE hotel_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`
