package dto

// AnalyticsSummaryDTO is the dashboard payload for one questionnaire.
type AnalyticsSummaryDTO struct {
	QuestionnaireID string               `json:"questionnaire_id"`
	From            string               `json:"from"`
	To              string               `json:"to"`
	TotalReviews    int64                `json:"total_reviews"`
	ReviewsInRange  int                  `json:"reviews_in_range"`
	AverageRating   float64              `json:"average_rating"`
	TrendPercent    *float64             `json:"trend_percent,omitempty"`
	Sentiment       SentimentBreakdown   `json:"sentiment"`
	Status          map[string]int       `json:"status"`
	RatingHistogram []int                `json:"rating_histogram"`
	Timeseries      []TimeseriesPointDTO `json:"timeseries"`
	TopTopics       []TopicCountDTO      `json:"top_topics"`
}

type SentimentBreakdown struct {
	Positive        int `json:"positive"`
	Neutral         int `json:"neutral"`
	Negative        int `json:"negative"`
	PositivePercent int `json:"positive_percent"`
	NeutralPercent  int `json:"neutral_percent"`
	NegativePercent int `json:"negative_percent"`
}

type TimeseriesPointDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TopicCountDTO struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}
