package repository

import (
	"testing"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestReview(t *testing.T, db *gorm.DB, questionnaireID uuid.UUID, rating int, sentiment domain.Sentiment, age time.Duration) *domain.Review {
	review := &domain.Review{
		QuestionnaireID: questionnaireID,
		Rating:          rating,
		Sentiment:       sentiment,
		Topics:          domain.StringArray{},
		Status:          domain.ReviewStatusNew,
		Source:          "qr",
	}
	review.CreatedAt = time.Now().Add(-age)
	require.NoError(t, db.Create(review).Error)
	return review
}

func TestListByQuestionnaire_FiltersBySentiment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	questionnaireID := uuid.New()

	createTestReview(t, db, questionnaireID, 5, domain.SentimentPositive, time.Hour)
	createTestReview(t, db, questionnaireID, 4, domain.SentimentPositive, 2*time.Hour)
	createTestReview(t, db, questionnaireID, 1, domain.SentimentNegative, 3*time.Hour)

	positive := domain.SentimentPositive
	reviews, total, err := repo.ListByQuestionnaire(questionnaireID, ReviewFilter{
		Sentiment: &positive,
		Page:      1,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reviews, 2)
	for _, r := range reviews {
		assert.Equal(t, domain.SentimentPositive, r.Sentiment)
	}
}

func TestListByQuestionnaire_FiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	questionnaireID := uuid.New()

	r1 := createTestReview(t, db, questionnaireID, 3, domain.SentimentNeutral, time.Hour)
	createTestReview(t, db, questionnaireID, 3, domain.SentimentNeutral, 2*time.Hour)

	require.NoError(t, repo.UpdateStatus(r1.ID, domain.ReviewStatusResolved))

	resolved := domain.ReviewStatusResolved
	_, total, err := repo.ListByQuestionnaire(questionnaireID, ReviewFilter{
		Status: &resolved,
		Page:   1,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestListByQuestionnaire_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	questionnaireID := uuid.New()

	old := createTestReview(t, db, questionnaireID, 3, domain.SentimentNeutral, 48*time.Hour)
	recent := createTestReview(t, db, questionnaireID, 3, domain.SentimentNeutral, time.Hour)

	reviews, _, err := repo.ListByQuestionnaire(questionnaireID, ReviewFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, recent.ID, reviews[0].ID)
	assert.Equal(t, old.ID, reviews[1].ID)
}

func TestListInRange_BoundsAreInclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	questionnaireID := uuid.New()

	createTestReview(t, db, questionnaireID, 3, domain.SentimentNeutral, time.Hour)
	createTestReview(t, db, questionnaireID, 3, domain.SentimentNeutral, 24*time.Hour)
	createTestReview(t, db, questionnaireID, 3, domain.SentimentNeutral, 30*24*time.Hour)

	reviews, err := repo.ListInRange(questionnaireID, time.Now().Add(-48*time.Hour), time.Now())
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestCountBySentiment_GroupsCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	questionnaireID := uuid.New()

	createTestReview(t, db, questionnaireID, 5, domain.SentimentPositive, time.Hour)
	createTestReview(t, db, questionnaireID, 5, domain.SentimentPositive, time.Hour)
	createTestReview(t, db, questionnaireID, 1, domain.SentimentNegative, time.Hour)
	createTestReview(t, db, questionnaireID, 3, domain.SentimentNeutral, time.Hour)

	counts, err := repo.CountBySentiment(questionnaireID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["positive"])
	assert.Equal(t, int64(1), counts["negative"])
	assert.Equal(t, int64(1), counts["neutral"])
}

func TestAverageRating_EmptyQuestionnaireIsZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)

	avg, err := repo.AverageRating(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}

func TestAverageRating_AveragesStoredRatings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	questionnaireID := uuid.New()

	createTestReview(t, db, questionnaireID, 5, domain.SentimentPositive, time.Hour)
	createTestReview(t, db, questionnaireID, 2, domain.SentimentNegative, time.Hour)

	avg, err := repo.AverageRating(questionnaireID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 0.001)
}
