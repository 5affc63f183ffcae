package handler

import (
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/middleware"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/service"
	"github.com/gofiber/fiber/v2"
)

// defaultAnalyticsWindow is applied when the caller sends no date range.
const defaultAnalyticsWindow = 30 * 24 * time.Hour

type AnalyticsHandler struct {
	analyticsService  *service.AnalyticsService
	questionnaireRepo *repository.QuestionnaireRepository
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, questionnaireRepo *repository.QuestionnaireRepository) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService:  analyticsService,
		questionnaireRepo: questionnaireRepo,
	}
}

// GetSummary - GET /questionnaires/:id/analytics
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	to := time.Now().UTC()
	from := to.Add(-defaultAnalyticsWindow)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "from must be YYYY-MM-DD",
			))
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "to must be YYYY-MM-DD",
			))
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "to must not be before from",
		))
	}

	summary, err := h.analyticsService.Summary(q.ID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to build analytics summary",
		))
	}

	// Topic analytics is a business plan feature; others get the rest of
	// the dashboard with an empty topic list.
	topTopics := []dto.TopicCountDTO{}
	plan := middleware.GetUserPlan(c)
	isAdmin := middleware.GetUserRole(c) == string(domain.RoleAdmin)
	if isAdmin || domain.PlanHasFeature(plan, domain.FeatureTopicAnalytics) {
		for _, t := range summary.TopTopics {
			topTopics = append(topTopics, dto.TopicCountDTO{Topic: t.Topic, Count: t.Count})
		}
	}

	positive, neutral, negative := summary.Sentiment.Percentages()

	timeseries := make([]dto.TimeseriesPointDTO, 0, len(summary.Timeseries))
	for _, p := range summary.Timeseries {
		timeseries = append(timeseries, dto.TimeseriesPointDTO{Date: p.Date, Count: p.Count})
	}

	return c.JSON(dto.SuccessResponse(dto.AnalyticsSummaryDTO{
		QuestionnaireID: summary.QuestionnaireID.String(),
		From:            summary.From.UTC().Format("2006-01-02"),
		To:              summary.To.UTC().Format("2006-01-02"),
		TotalReviews:    summary.TotalReviews,
		ReviewsInRange:  summary.ReviewsInRange,
		AverageRating:   summary.AverageRating,
		TrendPercent:    summary.TrendPercent,
		Sentiment: dto.SentimentBreakdown{
			Positive:        summary.Sentiment.Positive,
			Neutral:         summary.Sentiment.Neutral,
			Negative:        summary.Sentiment.Negative,
			PositivePercent: positive,
			NeutralPercent:  neutral,
			NegativePercent: negative,
		},
		Status:          summary.Status,
		RatingHistogram: summary.RatingHistogram,
		Timeseries:      timeseries,
		TopTopics:       topTopics,
	}, ""))
}
