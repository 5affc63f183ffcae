package handler

import (
	"log"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// scanCookieName identifies a returning device for unique scan counting.
const scanCookieName = "ul_scan"

// ScanHandler serves the public endpoints behind /q/:code. No auth.
type ScanHandler struct {
	qrRepo            *repository.QRCodeRepository
	questionnaireRepo *repository.QuestionnaireRepository
	reviewRepo        *repository.ReviewRepository
	sentiment         *service.SentimentService
	wsHandler         *WebSocketHandler
}

func NewScanHandler(
	qrRepo *repository.QRCodeRepository,
	questionnaireRepo *repository.QuestionnaireRepository,
	reviewRepo *repository.ReviewRepository,
	sentiment *service.SentimentService,
	wsHandler *WebSocketHandler,
) *ScanHandler {
	return &ScanHandler{
		qrRepo:            qrRepo,
		questionnaireRepo: questionnaireRepo,
		reviewRepo:        reviewRepo,
		sentiment:         sentiment,
		wsHandler:         wsHandler,
	}
}

// Scan - GET /q/:code counts the scan and redirects to the target URL.
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	code, status, errCode, msg := h.resolveCode(c)
	if code == nil {
		return c.Status(status).JSON(dto.ErrorResponse(errCode, msg))
	}

	// Counting must never block the customer from reaching the form.
	unique := h.markRespondent(c)
	if err := h.qrRepo.IncrementScan(code.ID, unique); err != nil {
		log.Printf("Failed to count scan for %s: %v", code.Code, err)
	}

	return c.Redirect(code.TargetURL, fiber.StatusFound)
}

// GetForm - GET /q/:code/form returns the questionnaire for rendering.
func (h *ScanHandler) GetForm(c *fiber.Ctx) error {
	code, status, errCode, msg := h.resolveCode(c)
	if code == nil {
		return c.Status(status).JSON(dto.ErrorResponse(errCode, msg))
	}

	q, err := h.questionnaireRepo.FindByIDWithQuestions(code.QuestionnaireID)
	if err != nil || !q.IsActive || !q.IsPublic {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "Questionnaire is not available",
		))
	}

	var questions []dto.QuestionDTO
	for i := range q.Questions {
		questions = append(questions, toQuestionDTO(&q.Questions[i]))
	}

	return c.JSON(dto.SuccessResponse(fiber.Map{
		"questionnaire_id": q.ID,
		"title":            q.Title,
		"description":      q.Description,
		"questions":        questions,
	}, ""))
}

// SubmitReview - POST /q/:code/reviews stores a review from a scanned code.
func (h *ScanHandler) SubmitReview(c *fiber.Ctx) error {
	code, status, errCode, msg := h.resolveCode(c)
	if code == nil {
		return c.Status(status).JSON(dto.ErrorResponse(errCode, msg))
	}
	return h.submit(c, code.QuestionnaireID, &code.ID, "qr")
}

// SubmitDirect - POST /questionnaires/:id/reviews stores a review submitted
// without a QR code, e.g. from a shared link.
func (h *ScanHandler) SubmitDirect(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid questionnaire id",
		))
	}
	return h.submit(c, id, nil, "direct")
}

func (h *ScanHandler) submit(c *fiber.Ctx, questionnaireID uuid.UUID, qrCodeID *uuid.UUID, source string) error {
	q, err := h.questionnaireRepo.FindByID(questionnaireID)
	if err != nil || !q.IsActive || !q.IsPublic {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "Questionnaire is not available",
		))
	}

	var req dto.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Rating must be between 1 and 5",
		))
	}
	if req.Comment != nil && len(*req.Comment) > 2000 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Comment must be at most 2000 characters",
		))
	}
	if req.Source != nil && *req.Source != "" {
		source = *req.Source
	}

	comment := ""
	if req.Comment != nil {
		comment = *req.Comment
	}

	review := &domain.Review{
		QuestionnaireID: q.ID,
		QRCodeID:        qrCodeID,
		Rating:          req.Rating,
		Comment:         req.Comment,
		Sentiment:       h.sentiment.Classify(comment),
		Topics:          h.sentiment.ExtractTopics(comment, q.CategoryMapping),
		Status:          domain.ReviewStatusNew,
		Source:          source,
	}
	if respondent := c.Cookies(scanCookieName); respondent != "" {
		review.RespondentID = &respondent
	}

	if err := h.reviewRepo.Create(review); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"CREATE_FAILED", "Failed to submit review",
		))
	}

	// The counter is best-effort; the review row is the source of truth.
	if err := h.questionnaireRepo.IncrementResponseCount(q.ID); err != nil {
		log.Printf("Failed to bump response count for %s: %v", q.ID, err)
	}

	reviewDTO := toReviewDTO(review)
	if h.wsHandler != nil {
		h.wsHandler.BroadcastReviewCreated(q.UserID, reviewDTO, q.Title)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(fiber.Map{
		"id": review.ID,
	}, "Thank you for your feedback"))
}

// resolveCode loads an active, non-expired QR code by its slug. On failure
// the returned status/code/message describe the rejection.
func (h *ScanHandler) resolveCode(c *fiber.Ctx) (*domain.QRCode, int, string, string) {
	slug := c.Params("code")
	if slug == "" {
		return nil, fiber.StatusBadRequest, "VALIDATION_ERROR", "Missing code"
	}

	code, err := h.qrRepo.FindByCode(slug)
	if err != nil {
		return nil, fiber.StatusNotFound, "NOT_FOUND", "QR code not found"
	}
	if !code.IsActive {
		return nil, fiber.StatusNotFound, "NOT_FOUND", "QR code is no longer active"
	}
	if code.IsExpired() {
		return nil, fiber.StatusGone, "QR_EXPIRED", "QR code has expired"
	}
	return code, 0, "", ""
}

// markRespondent reads the device cookie, setting it on first contact.
// Returns true when this device has not been seen before.
func (h *ScanHandler) markRespondent(c *fiber.Ctx) bool {
	if c.Cookies(scanCookieName) != "" {
		return false
	}
	c.Cookie(&fiber.Cookie{
		Name:     scanCookieName,
		Value:    uuid.New().String(),
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return true
}

func toReviewDTO(r *domain.Review) dto.ReviewDTO {
	topics := []string(r.Topics)
	if topics == nil {
		topics = []string{}
	}
	return dto.ReviewDTO{
		ID:              r.ID,
		QuestionnaireID: r.QuestionnaireID,
		QRCodeID:        r.QRCodeID,
		Rating:          r.Rating,
		Comment:         r.Comment,
		Sentiment:       string(r.Sentiment),
		Topics:          topics,
		Status:          string(r.Status),
		Source:          r.Source,
		CreatedAt:       r.CreatedAt,
	}
}
