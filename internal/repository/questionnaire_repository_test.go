package repository

import (
	"testing"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Questionnaire{},
		&domain.Question{},
		&domain.QRCode{},
		&domain.Review{},
	)
	require.NoError(t, err)

	return db
}

func createTestQuestionnaires(t *testing.T, repo *QuestionnaireRepository, userID uuid.UUID, n int) []domain.Questionnaire {
	items := make([]domain.Questionnaire, 0, n)
	for i := 0; i < n; i++ {
		q := domain.Questionnaire{
			UserID:          userID,
			Title:           "Questionnaire",
			CategoryMapping: domain.JSONB{},
			IsActive:        true,
			IsPublic:        true,
		}
		// Spread creation times so ordering is deterministic
		q.CreatedAt = time.Now().Add(time.Duration(-n+i) * time.Minute)
		require.NoError(t, repo.Create(&q))
		items = append(items, q)
	}
	return items
}

func TestFindByUserPaginated_SplitsPages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	userID := uuid.New()

	createTestQuestionnaires(t, repo, userID, 15)

	page1, total, err := repo.FindByUserPaginated(userID, ListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, page1, 10)

	page2, total, err := repo.FindByUserPaginated(userID, ListOptions{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, page2, 5)
}

func TestFindByUserPaginated_ExcludesOtherOwners(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)

	owner := uuid.New()
	other := uuid.New()
	createTestQuestionnaires(t, repo, owner, 3)
	createTestQuestionnaires(t, repo, other, 2)

	_, total, err := repo.FindByUserPaginated(owner, ListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestFindByUserPaginated_HidesInactiveByDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	userID := uuid.New()

	items := createTestQuestionnaires(t, repo, userID, 3)
	items[0].IsActive = false
	require.NoError(t, repo.Update(&items[0]))

	_, total, err := repo.FindByUserPaginated(userID, ListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.FindByUserPaginated(userID, ListOptions{Page: 1, Limit: 10, IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestFindByUserPaginated_ExcludesSoftDeleted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	userID := uuid.New()

	items := createTestQuestionnaires(t, repo, userID, 2)
	require.NoError(t, repo.SoftDelete(items[0].ID))

	_, total, err := repo.FindByUserPaginated(userID, ListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = repo.FindByID(items[0].ID)
	assert.Error(t, err, "soft-deleted rows must not resolve")
}

func TestCheckQuota_FreePlanAllowsSingleQuestionnaire(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	userID := uuid.New()

	quota, err := repo.CheckQuota(userID, domain.PlanFree)
	require.NoError(t, err)
	assert.True(t, quota.CanCreate)
	assert.Equal(t, int64(0), quota.Used)
	assert.Equal(t, 1, quota.Limit)

	createTestQuestionnaires(t, repo, userID, 1)

	quota, err = repo.CheckQuota(userID, domain.PlanFree)
	require.NoError(t, err)
	assert.False(t, quota.CanCreate)
	assert.Equal(t, int64(1), quota.Used)
}

func TestCheckQuota_SoftDeletedRowsStillCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	userID := uuid.New()

	items := createTestQuestionnaires(t, repo, userID, 1)
	require.NoError(t, repo.SoftDelete(items[0].ID))

	// The row is gone from listings but still occupies the quota slot
	quota, err := repo.CheckQuota(userID, domain.PlanFree)
	require.NoError(t, err)
	assert.False(t, quota.CanCreate)
	assert.Equal(t, int64(1), quota.Used)
}

func TestCheckQuota_StarterPlanCapsAtFive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	userID := uuid.New()

	createTestQuestionnaires(t, repo, userID, 4)

	quota, err := repo.CheckQuota(userID, domain.PlanStarter)
	require.NoError(t, err)
	assert.True(t, quota.CanCreate)

	createTestQuestionnaires(t, repo, userID, 1)

	quota, err = repo.CheckQuota(userID, domain.PlanStarter)
	require.NoError(t, err)
	assert.False(t, quota.CanCreate)
	assert.Equal(t, int64(5), quota.Used)
}

func TestCheckQuota_BusinessPlanIsUnlimited(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	userID := uuid.New()

	createTestQuestionnaires(t, repo, userID, 25)

	quota, err := repo.CheckQuota(userID, domain.PlanBusiness)
	require.NoError(t, err)
	assert.True(t, quota.CanCreate)
	assert.Equal(t, domain.QuotaUnlimited, quota.Limit)
}

func TestIncrementResponseCount_BumpsCounter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	userID := uuid.New()

	items := createTestQuestionnaires(t, repo, userID, 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementResponseCount(items[0].ID))
	}

	q, err := repo.FindByID(items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, q.ResponseCount)
}

func TestNextQuestionPosition_StartsAtOneAndGrows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	questionnaireID := uuid.New()

	pos, err := repo.NextQuestionPosition(questionnaireID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	require.NoError(t, repo.CreateQuestion(&domain.Question{
		QuestionnaireID: questionnaireID,
		Type:            domain.QuestionRating,
		Prompt:          "How was it?",
		Position:        1,
		Options:         domain.JSONB{},
	}))

	pos, err = repo.NextQuestionPosition(questionnaireID)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestReorderQuestions_RewritesPositions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionnaireRepository(db)
	questionnaireID := uuid.New()

	ids := make([]uuid.UUID, 3)
	for i := 0; i < 3; i++ {
		q := domain.Question{
			QuestionnaireID: questionnaireID,
			Type:            domain.QuestionText,
			Prompt:          "Prompt",
			Position:        i + 1,
			Options:         domain.JSONB{},
		}
		require.NoError(t, repo.CreateQuestion(&q))
		ids[i] = q.ID
	}

	// Reverse the order
	require.NoError(t, repo.ReorderQuestions(questionnaireID, []uuid.UUID{ids[2], ids[1], ids[0]}))

	questions, err := repo.ListQuestions(questionnaireID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, ids[2], questions[0].ID)
	assert.Equal(t, ids[1], questions[1].ID)
	assert.Equal(t, ids[0], questions[2].ID)
}
