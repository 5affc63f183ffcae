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

func createTestQRCode(t *testing.T, db *gorm.DB, questionnaireID uuid.UUID, slug string) *domain.QRCode {
	code := &domain.QRCode{
		QuestionnaireID: questionnaireID,
		Code:            slug,
		Label:           "Front door",
		TargetURL:       "https://go.ulasis.id/q/" + slug,
		ForegroundColor: "#000000",
		BackgroundColor: "#ffffff",
		Size:            512,
		ErrorCorrection: domain.ECLevelMedium,
		IsActive:        true,
	}
	require.NoError(t, db.Create(code).Error)
	return code
}

func TestIncrementScan_UniqueBumpsBothCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQRCodeRepository(db)
	code := createTestQRCode(t, db, uuid.New(), "slug000001")

	require.NoError(t, repo.IncrementScan(code.ID, true))

	got, err := repo.FindByID(code.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ScanCount)
	assert.Equal(t, int64(1), got.UniqueScans)
	assert.NotNil(t, got.LastScanAt)
}

func TestIncrementScan_RepeatVisitorBumpsScanCountOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQRCodeRepository(db)
	code := createTestQRCode(t, db, uuid.New(), "slug000002")

	require.NoError(t, repo.IncrementScan(code.ID, true))
	require.NoError(t, repo.IncrementScan(code.ID, false))
	require.NoError(t, repo.IncrementScan(code.ID, false))

	got, err := repo.FindByID(code.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ScanCount)
	assert.Equal(t, int64(1), got.UniqueScans)
}

func TestFindByCode_IgnoresSoftDeletedRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQRCodeRepository(db)
	code := createTestQRCode(t, db, uuid.New(), "slug000003")

	found, err := repo.FindByCode("slug000003")
	require.NoError(t, err)
	assert.Equal(t, code.ID, found.ID)

	require.NoError(t, repo.SoftDelete(code.ID))

	_, err = repo.FindByCode("slug000003")
	assert.Error(t, err)

	// The slug stays reserved even after deletion
	exists, err := repo.CodeExists("slug000003")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCleanupExpired_DeactivatesOnlyExpiredActiveCodes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQRCodeRepository(db)
	questionnaireID := uuid.New()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := createTestQRCode(t, db, questionnaireID, "slug000010")
	expired.ExpiresAt = &past
	require.NoError(t, repo.Update(expired))

	alreadyInactive := createTestQRCode(t, db, questionnaireID, "slug000011")
	alreadyInactive.ExpiresAt = &past
	alreadyInactive.IsActive = false
	require.NoError(t, repo.Update(alreadyInactive))

	fresh := createTestQRCode(t, db, questionnaireID, "slug000012")
	fresh.ExpiresAt = &future
	require.NoError(t, repo.Update(fresh))

	forever := createTestQRCode(t, db, questionnaireID, "slug000013")

	deactivated, err := repo.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deactivated)

	got, err := repo.FindByID(expired.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = repo.FindByID(fresh.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	got, err = repo.FindByID(forever.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive, "codes without expiry are never deactivated")
}

func TestCleanupExpired_NothingToDo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQRCodeRepository(db)

	deactivated, err := repo.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(0), deactivated)
}

func TestGetScanStatistics_EmptyOwnerIsAllZeros(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQRCodeRepository(db)

	stats, err := repo.GetScanStatistics(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalQRCodes)
	assert.Equal(t, int64(0), stats.ActiveQRCodes)
	assert.Equal(t, int64(0), stats.TotalScans)
	assert.Equal(t, int64(0), stats.TotalUniqueScans)
	assert.Equal(t, int64(0), stats.AverageScansPerQR)
}

func TestGetScanStatistics_AggregatesOwnerCodes(t *testing.T) {
	db := setupTestDB(t)
	qRepo := NewQuestionnaireRepository(db)
	repo := NewQRCodeRepository(db)

	userID := uuid.New()
	owned := createTestQuestionnaires(t, qRepo, userID, 1)[0]
	foreign := createTestQuestionnaires(t, qRepo, uuid.New(), 1)[0]

	a := createTestQRCode(t, db, owned.ID, "slug000020")
	a.ScanCount = 10
	a.UniqueScans = 4
	require.NoError(t, repo.Update(a))

	b := createTestQRCode(t, db, owned.ID, "slug000021")
	b.ScanCount = 5
	b.UniqueScans = 2
	b.IsActive = false
	require.NoError(t, repo.Update(b))

	// Another owner's traffic must not leak into the stats
	c := createTestQRCode(t, db, foreign.ID, "slug000022")
	c.ScanCount = 100
	require.NoError(t, repo.Update(c))

	stats, err := repo.GetScanStatistics(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalQRCodes)
	assert.Equal(t, int64(1), stats.ActiveQRCodes)
	assert.Equal(t, int64(15), stats.TotalScans)
	assert.Equal(t, int64(6), stats.TotalUniqueScans)
	// 15 scans over 2 codes rounds to 8
	assert.Equal(t, int64(8), stats.AverageScansPerQR)
}
