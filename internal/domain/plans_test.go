package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func nowOffset(hours int) time.Time {
	return time.Now().Add(time.Duration(hours) * time.Hour)
}

func TestFeaturesForPlan_QuotaPerTier(t *testing.T) {
	assert.Equal(t, 1, FeaturesForPlan(PlanFree).QuestionnaireQuota)
	assert.Equal(t, 5, FeaturesForPlan(PlanStarter).QuestionnaireQuota)
	assert.Equal(t, QuotaUnlimited, FeaturesForPlan(PlanBusiness).QuestionnaireQuota)
}

func TestFeaturesForPlan_UnknownTierGetsFreePlan(t *testing.T) {
	features := FeaturesForPlan(PlanTier("enterprise"))
	assert.Equal(t, FeaturesForPlan(PlanFree), features)
	assert.Equal(t, 1, features.QuestionnaireQuota)
	assert.False(t, features.Export)
}

func TestPlanHasFeature_GatesPerTier(t *testing.T) {
	// Free gets nothing beyond the base product
	assert.False(t, PlanHasFeature(PlanFree, FeatureCustomQRColors))
	assert.False(t, PlanHasFeature(PlanFree, FeatureQRLogo))
	assert.False(t, PlanHasFeature(PlanFree, FeatureExport))
	assert.False(t, PlanHasFeature(PlanFree, FeatureLiveFeed))
	assert.False(t, PlanHasFeature(PlanFree, FeatureTopicAnalytics))

	// Starter unlocks colors and export
	assert.True(t, PlanHasFeature(PlanStarter, FeatureCustomQRColors))
	assert.True(t, PlanHasFeature(PlanStarter, FeatureExport))
	assert.False(t, PlanHasFeature(PlanStarter, FeatureQRLogo))
	assert.False(t, PlanHasFeature(PlanStarter, FeatureLiveFeed))
	assert.False(t, PlanHasFeature(PlanStarter, FeatureTopicAnalytics))

	// Business unlocks everything
	assert.True(t, PlanHasFeature(PlanBusiness, FeatureCustomQRColors))
	assert.True(t, PlanHasFeature(PlanBusiness, FeatureQRLogo))
	assert.True(t, PlanHasFeature(PlanBusiness, FeatureExport))
	assert.True(t, PlanHasFeature(PlanBusiness, FeatureLiveFeed))
	assert.True(t, PlanHasFeature(PlanBusiness, FeatureTopicAnalytics))
}

func TestPlanHasFeature_UnknownFeatureIsDenied(t *testing.T) {
	assert.False(t, PlanHasFeature(PlanBusiness, "time_travel"))
}

func TestValidPlan(t *testing.T) {
	assert.True(t, ValidPlan(PlanFree))
	assert.True(t, ValidPlan(PlanStarter))
	assert.True(t, ValidPlan(PlanBusiness))
	assert.False(t, ValidPlan(PlanTier("enterprise")))
	assert.False(t, ValidPlan(PlanTier("")))
}

func TestQRCodeIsExpired(t *testing.T) {
	code := &QRCode{}
	assert.False(t, code.IsExpired(), "nil expiry never expires")

	past := nowOffset(-1)
	code.ExpiresAt = &past
	assert.True(t, code.IsExpired())

	future := nowOffset(1)
	code.ExpiresAt = &future
	assert.False(t, code.IsExpired())
}
