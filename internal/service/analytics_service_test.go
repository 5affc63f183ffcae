package service

import (
	"testing"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewWithRating(rating int) domain.Review {
	return domain.Review{Rating: rating}
}

func TestAverageRating_RoundsToTwoDecimals(t *testing.T) {
	reviews := []domain.Review{
		reviewWithRating(5),
		reviewWithRating(4),
		reviewWithRating(4),
	}
	// 13/3 = 4.333...
	assert.Equal(t, 4.33, AverageRating(reviews))
}

func TestAverageRating_EmptyInputIsZero(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]domain.Review{}))
}

func TestTrendPercent_NilWhenNoBaseline(t *testing.T) {
	assert.Nil(t, TrendPercent(10, 0))
}

func TestTrendPercent_ComputesRelativeChange(t *testing.T) {
	up := TrendPercent(15, 10)
	require.NotNil(t, up)
	assert.Equal(t, 50.0, *up)

	down := TrendPercent(5, 10)
	require.NotNil(t, down)
	assert.Equal(t, -50.0, *down)

	flat := TrendPercent(10, 10)
	require.NotNil(t, flat)
	assert.Equal(t, 0.0, *flat)
}

func TestCountSentiments_UnknownValuesCountAsNeutral(t *testing.T) {
	reviews := []domain.Review{
		{Sentiment: domain.SentimentPositive},
		{Sentiment: domain.SentimentPositive},
		{Sentiment: domain.SentimentNegative},
		{Sentiment: domain.Sentiment("garbage")},
		{},
	}

	counts := CountSentiments(reviews)
	assert.Equal(t, 2, counts.Positive)
	assert.Equal(t, 1, counts.Negative)
	assert.Equal(t, 2, counts.Neutral)
}

func TestSentimentPercentages_ZeroTotalIsAllZeros(t *testing.T) {
	positive, neutral, negative := SentimentCounts{}.Percentages()
	assert.Equal(t, 0, positive)
	assert.Equal(t, 0, neutral)
	assert.Equal(t, 0, negative)
}

func TestSentimentPercentages_FlooredSharesNeverExceedHundred(t *testing.T) {
	// 1/3 each floors to 33
	positive, neutral, negative := SentimentCounts{Positive: 1, Neutral: 1, Negative: 1}.Percentages()
	assert.Equal(t, 33, positive)
	assert.Equal(t, 33, neutral)
	assert.Equal(t, 33, negative)
	assert.LessOrEqual(t, positive+neutral+negative, 100)
}

func TestCountStatuses_AlwaysReportsAllThreeKeys(t *testing.T) {
	counts := CountStatuses(nil)
	assert.Equal(t, 0, counts["new"])
	assert.Equal(t, 0, counts["in_progress"])
	assert.Equal(t, 0, counts["resolved"])

	counts = CountStatuses([]domain.Review{
		{Status: domain.ReviewStatusNew},
		{Status: domain.ReviewStatusResolved},
		{Status: domain.ReviewStatusResolved},
	})
	assert.Equal(t, 1, counts["new"])
	assert.Equal(t, 0, counts["in_progress"])
	assert.Equal(t, 2, counts["resolved"])
}

func TestRatingHistogram_IgnoresOutOfRangeRatings(t *testing.T) {
	reviews := []domain.Review{
		reviewWithRating(1),
		reviewWithRating(5),
		reviewWithRating(5),
		reviewWithRating(0),
		reviewWithRating(6),
	}

	histogram := RatingHistogram(reviews)
	assert.Equal(t, []int{1, 0, 0, 0, 2}, histogram)
}

func TestBucketByDay_ZeroFillsEveryDayInRange(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC)

	reviews := []domain.Review{
		{CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)},
	}

	series := BucketByDay(reviews, from, to)
	require.Len(t, series, 4)
	assert.Equal(t, TimeseriesPoint{Date: "2026-03-01", Count: 2}, series[0])
	assert.Equal(t, TimeseriesPoint{Date: "2026-03-02", Count: 0}, series[1])
	assert.Equal(t, TimeseriesPoint{Date: "2026-03-03", Count: 1}, series[2])
	assert.Equal(t, TimeseriesPoint{Date: "2026-03-04", Count: 0}, series[3])
}

func TestBucketByDay_InvertedRangeIsEmpty(t *testing.T) {
	from := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	series := BucketByDay(nil, from, to)
	assert.Empty(t, series)
}

func TestTopTopics_OrdersByCountThenName(t *testing.T) {
	reviews := []domain.Review{
		{Topics: domain.StringArray{"speed", "service"}},
		{Topics: domain.StringArray{"speed"}},
		{Topics: domain.StringArray{"price", "service"}},
	}

	topics := TopTopics(reviews, 10)
	require.Len(t, topics, 3)
	// service and speed tie at 2; alphabetical order breaks the tie
	assert.Equal(t, TopicCount{Topic: "service", Count: 2}, topics[0])
	assert.Equal(t, TopicCount{Topic: "speed", Count: 2}, topics[1])
	assert.Equal(t, TopicCount{Topic: "price", Count: 1}, topics[2])
}

func TestTopTopics_CapsTheList(t *testing.T) {
	reviews := []domain.Review{
		{Topics: domain.StringArray{"a", "b", "c", "d"}},
	}

	topics := TopTopics(reviews, 2)
	assert.Len(t, topics, 2)
}
