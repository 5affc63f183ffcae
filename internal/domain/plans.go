package domain

// QuotaUnlimited marks a plan with no questionnaire cap.
const QuotaUnlimited = -1

// PlanFeatures is the static entitlement table for a plan tier.
type PlanFeatures struct {
	QuestionnaireQuota int
	CustomQRColors     bool
	QRLogo             bool
	Export             bool
	LiveFeed           bool
	TopicAnalytics     bool
}

var planTable = map[PlanTier]PlanFeatures{
	PlanFree: {
		QuestionnaireQuota: 1,
	},
	PlanStarter: {
		QuestionnaireQuota: 5,
		CustomQRColors:     true,
		Export:             true,
	},
	PlanBusiness: {
		QuestionnaireQuota: QuotaUnlimited,
		CustomQRColors:     true,
		QRLogo:             true,
		Export:             true,
		LiveFeed:           true,
		TopicAnalytics:     true,
	},
}

// Feature names used by the plan middleware.
const (
	FeatureCustomQRColors = "custom_qr_colors"
	FeatureQRLogo         = "qr_logo"
	FeatureExport         = "export"
	FeatureLiveFeed       = "live_feed"
	FeatureTopicAnalytics = "topic_analytics"
)

// FeaturesForPlan returns the entitlements of a tier. Unknown tiers
// get the free plan so a bad row never unlocks anything.
func FeaturesForPlan(tier PlanTier) PlanFeatures {
	if f, ok := planTable[tier]; ok {
		return f
	}
	return planTable[PlanFree]
}

// PlanHasFeature checks a single named feature against the table.
func PlanHasFeature(tier PlanTier, feature string) bool {
	f := FeaturesForPlan(tier)
	switch feature {
	case FeatureCustomQRColors:
		return f.CustomQRColors
	case FeatureQRLogo:
		return f.QRLogo
	case FeatureExport:
		return f.Export
	case FeatureLiveFeed:
		return f.LiveFeed
	case FeatureTopicAnalytics:
		return f.TopicAnalytics
	default:
		return false
	}
}

// ValidPlan reports whether the tier exists in the plan table.
func ValidPlan(tier PlanTier) bool {
	_, ok := planTable[tier]
	return ok
}
