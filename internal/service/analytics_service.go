package service

import (
	"math"
	"sort"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/google/uuid"
)

// topTopicsCap bounds the topic list on the dashboard.
const topTopicsCap = 10

// AnalyticsService derives the dashboard summary for a questionnaire from
// its stored reviews. All bucketing and percentage math lives in pure
// helpers so the derivation is testable without a database.
type AnalyticsService struct {
	reviewRepo *repository.ReviewRepository
}

type SentimentCounts struct {
	Positive int
	Neutral  int
	Negative int
}

type TimeseriesPoint struct {
	Date  string
	Count int
}

type TopicCount struct {
	Topic string
	Count int
}

type Summary struct {
	QuestionnaireID uuid.UUID
	From            time.Time
	To              time.Time
	TotalReviews    int64
	ReviewsInRange  int
	AverageRating   float64
	// TrendPercent compares the range against the preceding window of equal
	// length; nil when the preceding window is empty.
	TrendPercent    *float64
	Sentiment       SentimentCounts
	Status          map[string]int
	RatingHistogram []int
	Timeseries      []TimeseriesPoint
	TopTopics       []TopicCount
}

func NewAnalyticsService(reviewRepo *repository.ReviewRepository) *AnalyticsService {
	return &AnalyticsService{reviewRepo: reviewRepo}
}

func (s *AnalyticsService) Summary(questionnaireID uuid.UUID, from, to time.Time) (*Summary, error) {
	reviews, err := s.reviewRepo.ListInRange(questionnaireID, from, to)
	if err != nil {
		return nil, err
	}

	total, err := s.reviewRepo.CountByQuestionnaire(questionnaireID)
	if err != nil {
		return nil, err
	}

	// Preceding window of the same length, for the trend KPI.
	window := to.Sub(from)
	prevCount, err := s.reviewRepo.CountInRange(questionnaireID, from.Add(-window), from)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		QuestionnaireID: questionnaireID,
		From:            from,
		To:              to,
		TotalReviews:    total,
		ReviewsInRange:  len(reviews),
		AverageRating:   AverageRating(reviews),
		TrendPercent:    TrendPercent(len(reviews), int(prevCount)),
		Sentiment:       CountSentiments(reviews),
		Status:          CountStatuses(reviews),
		RatingHistogram: RatingHistogram(reviews),
		Timeseries:      BucketByDay(reviews, from, to),
		TopTopics:       TopTopics(reviews, topTopicsCap),
	}
	return summary, nil
}

// AverageRating rounds to two decimals; empty input yields 0.
func AverageRating(reviews []domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*100) / 100
}

// TrendPercent is the relative change against the previous period. A previous
// count of zero has no meaningful baseline, so the trend is nil.
func TrendPercent(current, previous int) *float64 {
	if previous == 0 {
		return nil
	}
	trend := math.Round(float64(current-previous)/float64(previous)*10000) / 100
	return &trend
}

func CountSentiments(reviews []domain.Review) SentimentCounts {
	var c SentimentCounts
	for _, r := range reviews {
		switch r.Sentiment {
		case domain.SentimentPositive:
			c.Positive++
		case domain.SentimentNegative:
			c.Negative++
		default:
			c.Neutral++
		}
	}
	return c
}

// Percentages floors each share so the three buckets never sum above 100.
// A zero total yields all zeros.
func (c SentimentCounts) Percentages() (positive, neutral, negative int) {
	total := c.Positive + c.Neutral + c.Negative
	if total == 0 {
		return 0, 0, 0
	}
	positive = c.Positive * 100 / total
	neutral = c.Neutral * 100 / total
	negative = c.Negative * 100 / total
	return positive, neutral, negative
}

func CountStatuses(reviews []domain.Review) map[string]int {
	out := map[string]int{
		string(domain.ReviewStatusNew):        0,
		string(domain.ReviewStatusInProgress): 0,
		string(domain.ReviewStatusResolved):   0,
	}
	for _, r := range reviews {
		out[string(r.Status)]++
	}
	return out
}

// RatingHistogram returns counts for ratings 1..5; index 0 holds rating 1.
// Out-of-range ratings are ignored.
func RatingHistogram(reviews []domain.Review) []int {
	histogram := make([]int, 5)
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			histogram[r.Rating-1]++
		}
	}
	return histogram
}

// BucketByDay counts reviews per calendar day (UTC) and zero-fills every day
// between from and to inclusive, so charts have no gaps.
func BucketByDay(reviews []domain.Review, from, to time.Time) []TimeseriesPoint {
	counts := make(map[string]int)
	for _, r := range reviews {
		counts[r.CreatedAt.UTC().Format("2006-01-02")]++
	}

	start := from.UTC().Truncate(24 * time.Hour)
	end := to.UTC().Truncate(24 * time.Hour)
	if end.Before(start) {
		return []TimeseriesPoint{}
	}

	var series []TimeseriesPoint
	for day := start; !day.After(end); day = day.Add(24 * time.Hour) {
		key := day.Format("2006-01-02")
		series = append(series, TimeseriesPoint{Date: key, Count: counts[key]})
	}
	return series
}

// TopTopics tallies topic tags, ordered by count descending then name, capped.
func TopTopics(reviews []domain.Review, limit int) []TopicCount {
	counts := make(map[string]int)
	for _, r := range reviews {
		for _, topic := range r.Topics {
			counts[topic]++
		}
	}

	topics := make([]TopicCount, 0, len(counts))
	for topic, count := range counts {
		topics = append(topics, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Topic < topics[j].Topic
	})

	if limit > 0 && len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}
