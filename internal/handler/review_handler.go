package handler

import (
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewRepo        *repository.ReviewRepository
	questionnaireRepo *repository.QuestionnaireRepository
}

func NewReviewHandler(reviewRepo *repository.ReviewRepository, questionnaireRepo *repository.QuestionnaireRepository) *ReviewHandler {
	return &ReviewHandler{
		reviewRepo:        reviewRepo,
		questionnaireRepo: questionnaireRepo,
	}
}

// List - GET /questionnaires/:id/reviews with sentiment/status/date filters
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := repository.ReviewFilter{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	}

	if sentiment := c.Query("sentiment"); sentiment != "" {
		s := domain.Sentiment(sentiment)
		switch s {
		case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
			filter.Sentiment = &s
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Unknown sentiment filter",
			))
		}
	}
	if status := c.Query("status"); status != "" {
		s := domain.ReviewStatus(status)
		switch s {
		case domain.ReviewStatusNew, domain.ReviewStatusInProgress, domain.ReviewStatusResolved:
			filter.Status = &s
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Unknown status filter",
			))
		}
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.To = &end
		}
	}

	reviews, total, err := h.reviewRepo.ListByQuestionnaire(q.ID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch reviews",
		))
	}

	result := make([]dto.ReviewDTO, 0, len(reviews))
	for i := range reviews {
		result = append(result, toReviewDTO(&reviews[i]))
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return c.JSON(dto.PaginatedResponse(result, dto.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(totalPages),
	}))
}

// UpdateStatus - PATCH /questionnaires/:id/reviews/:review_id/status
func (h *ReviewHandler) UpdateStatus(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Params("review_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid review id",
		))
	}

	review, err := h.reviewRepo.FindByID(reviewID)
	if err != nil || review.QuestionnaireID != q.ID {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "Review not found",
		))
	}

	var req dto.UpdateReviewStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	status := domain.ReviewStatus(req.Status)
	switch status {
	case domain.ReviewStatusNew, domain.ReviewStatusInProgress, domain.ReviewStatusResolved:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Status must be one of new, in_progress, resolved",
		))
	}

	if err := h.reviewRepo.UpdateStatus(reviewID, status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to update review status",
		))
	}

	review.Status = status
	return c.JSON(dto.SuccessResponse(toReviewDTO(review), "Review status updated"))
}

// GetStats - GET /questionnaires/:id/reviews/stats
func (h *ReviewHandler) GetStats(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	total, err := h.reviewRepo.CountByQuestionnaire(q.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch review stats",
		))
	}
	avg, err := h.reviewRepo.AverageRating(q.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch review stats",
		))
	}
	bySentiment, err := h.reviewRepo.CountBySentiment(q.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch review stats",
		))
	}
	byStatus, err := h.reviewRepo.CountByStatus(q.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch review stats",
		))
	}

	return c.JSON(dto.SuccessResponse(dto.ReviewStatsDTO{
		Total:         total,
		AverageRating: avg,
		BySentiment:   bySentiment,
		ByStatus:      byStatus,
	}, ""))
}
