package handler

import (
	"strings"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/middleware"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type QuestionnaireHandler struct {
	questionnaireRepo *repository.QuestionnaireRepository
	userRepo          *repository.UserRepository
}

func NewQuestionnaireHandler(questionnaireRepo *repository.QuestionnaireRepository, userRepo *repository.UserRepository) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		questionnaireRepo: questionnaireRepo,
		userRepo:          userRepo,
	}
}

// List - GET /questionnaires
func (h *QuestionnaireHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	opts := repository.ListOptions{
		Page:            page,
		Limit:           limit,
		IncludeInactive: c.QueryBool("include_inactive", false),
		Search:          c.Query("search"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			opts.CreatedFrom = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			opts.CreatedTo = &end
		}
	}

	items, total, err := h.questionnaireRepo.FindByUserPaginated(*userID, opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch questionnaires",
		))
	}

	var result []dto.QuestionnaireListDTO
	for _, q := range items {
		qrCount, _ := h.questionnaireRepo.QRCodeCount(q.ID)
		result = append(result, dto.QuestionnaireListDTO{
			ID:            q.ID,
			Title:         q.Title,
			Description:   q.Description,
			IsActive:      q.IsActive,
			IsPublic:      q.IsPublic,
			ResponseCount: q.ResponseCount,
			QRCodeCount:   qrCount,
			CreatedAt:     q.CreatedAt,
		})
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return c.JSON(dto.PaginatedResponse(result, dto.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(totalPages),
	}))
}

// Create - POST /questionnaires
func (h *QuestionnaireHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	var req dto.CreateQuestionnaireRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > 200 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Title must be 1-200 characters",
		))
	}

	quota, err := h.questionnaireRepo.CheckQuota(*userID, middleware.GetUserPlan(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to check quota",
		))
	}
	if !quota.CanCreate {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse(
			"QUOTA_EXCEEDED", "Questionnaire quota for your plan is exhausted",
		))
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	mapping := domain.JSONB{}
	if req.CategoryMapping != nil {
		mapping = domain.JSONB(req.CategoryMapping)
	}

	q := &domain.Questionnaire{
		UserID:          *userID,
		Title:           req.Title,
		Description:     req.Description,
		CategoryMapping: mapping,
		IsActive:        true,
		IsPublic:        isPublic,
	}
	if err := h.questionnaireRepo.Create(q); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"CREATE_FAILED", "Failed to create questionnaire",
		))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(h.toDetailDTO(q, nil), "Questionnaire created"))
}

// GetByID - GET /questionnaires/:id
func (h *QuestionnaireHandler) GetByID(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	full, err := h.questionnaireRepo.FindByIDWithQuestions(q.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch questionnaire",
		))
	}

	return c.JSON(dto.SuccessResponse(h.toDetailDTO(full, full.Questions), ""))
}

// Update - PATCH /questionnaires/:id
func (h *QuestionnaireHandler) Update(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	var req dto.UpdateQuestionnaireRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > 200 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Title must be 1-200 characters",
			))
		}
		q.Title = title
	}
	if req.Description != nil {
		q.Description = req.Description
	}
	if req.CategoryMapping != nil {
		q.CategoryMapping = domain.JSONB(*req.CategoryMapping)
	}
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
	if req.IsPublic != nil {
		q.IsPublic = *req.IsPublic
	}

	if err := h.questionnaireRepo.Update(q); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to update questionnaire",
		))
	}

	return c.JSON(dto.SuccessResponse(h.toDetailDTO(q, nil), "Questionnaire updated"))
}

// Delete - DELETE /questionnaires/:id (soft delete)
func (h *QuestionnaireHandler) Delete(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	if err := h.questionnaireRepo.SoftDelete(q.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"DELETE_FAILED", "Failed to delete questionnaire",
		))
	}

	return c.JSON(dto.SuccessResponse(nil, "Questionnaire deleted"))
}

// GetQuota - GET /questionnaires/quota
func (h *QuestionnaireHandler) GetQuota(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	plan := middleware.GetUserPlan(c)
	quota, err := h.questionnaireRepo.CheckQuota(*userID, plan)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to check quota",
		))
	}

	return c.JSON(dto.SuccessResponse(dto.QuotaDTO{
		CanCreate: quota.CanCreate,
		Used:      quota.Used,
		Limit:     quota.Limit,
		Unlimited: quota.Limit == domain.QuotaUnlimited,
		Plan:      string(plan),
	}, ""))
}

// ============================================================================
// QUESTIONS
// ============================================================================

// CreateQuestion - POST /questionnaires/:id/questions
func (h *QuestionnaireHandler) CreateQuestion(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	qType := domain.QuestionType(req.Type)
	switch qType {
	case domain.QuestionRating, domain.QuestionText, domain.QuestionMultipleChoice, domain.QuestionYesNo:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Unknown question type",
		))
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" || len(req.Prompt) > 500 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Prompt must be 1-500 characters",
		))
	}

	position, err := h.questionnaireRepo.NextQuestionPosition(q.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to determine question position",
		))
	}

	options := domain.JSONB{}
	if req.Options != nil {
		options = domain.JSONB(req.Options)
	}

	question := &domain.Question{
		QuestionnaireID: q.ID,
		Type:            qType,
		Prompt:          req.Prompt,
		Position:        position,
		Required:        req.Required,
		Options:         options,
	}
	if err := h.questionnaireRepo.CreateQuestion(question); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"CREATE_FAILED", "Failed to create question",
		))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(toQuestionDTO(question), "Question created"))
}

// UpdateQuestion - PATCH /questionnaires/:id/questions/:question_id
func (h *QuestionnaireHandler) UpdateQuestion(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	questionID, err := uuid.Parse(c.Params("question_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid question id",
		))
	}

	question, err := h.questionnaireRepo.FindQuestionByID(questionID)
	if err != nil || question.QuestionnaireID != q.ID {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "Question not found",
		))
	}

	var req dto.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	if req.Prompt != nil {
		prompt := strings.TrimSpace(*req.Prompt)
		if prompt == "" || len(prompt) > 500 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Prompt must be 1-500 characters",
			))
		}
		question.Prompt = prompt
	}
	if req.Required != nil {
		question.Required = *req.Required
	}
	if req.Options != nil {
		question.Options = domain.JSONB(*req.Options)
	}

	if err := h.questionnaireRepo.UpdateQuestion(question); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to update question",
		))
	}

	return c.JSON(dto.SuccessResponse(toQuestionDTO(question), "Question updated"))
}

// DeleteQuestion - DELETE /questionnaires/:id/questions/:question_id
func (h *QuestionnaireHandler) DeleteQuestion(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	questionID, err := uuid.Parse(c.Params("question_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid question id",
		))
	}

	question, err := h.questionnaireRepo.FindQuestionByID(questionID)
	if err != nil || question.QuestionnaireID != q.ID {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "Question not found",
		))
	}

	if err := h.questionnaireRepo.DeleteQuestion(questionID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"DELETE_FAILED", "Failed to delete question",
		))
	}

	return c.JSON(dto.SuccessResponse(nil, "Question deleted"))
}

// ReorderQuestions - PUT /questionnaires/:id/questions/reorder
func (h *QuestionnaireHandler) ReorderQuestions(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	var req dto.ReorderQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}
	if len(req.QuestionIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "question_ids is required",
		))
	}

	if err := h.questionnaireRepo.ReorderQuestions(q.ID, req.QuestionIDs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to reorder questions",
		))
	}

	questions, err := h.questionnaireRepo.ListQuestions(q.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch questions",
		))
	}

	var result []dto.QuestionDTO
	for i := range questions {
		result = append(result, toQuestionDTO(&questions[i]))
	}
	return c.JSON(dto.SuccessResponse(result, "Questions reordered"))
}

// ============================================================================
// HELPERS
// ============================================================================

func (h *QuestionnaireHandler) toDetailDTO(q *domain.Questionnaire, questions []domain.Question) dto.QuestionnaireDetailDTO {
	var questionDTOs []dto.QuestionDTO
	for i := range questions {
		questionDTOs = append(questionDTOs, toQuestionDTO(&questions[i]))
	}
	return dto.QuestionnaireDetailDTO{
		ID:              q.ID,
		Title:           q.Title,
		Description:     q.Description,
		CategoryMapping: map[string]interface{}(q.CategoryMapping),
		IsActive:        q.IsActive,
		IsPublic:        q.IsPublic,
		ResponseCount:   q.ResponseCount,
		Questions:       questionDTOs,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

func toQuestionDTO(q *domain.Question) dto.QuestionDTO {
	return dto.QuestionDTO{
		ID:       q.ID,
		Type:     string(q.Type),
		Prompt:   q.Prompt,
		Position: q.Position,
		Required: q.Required,
		Options:  map[string]interface{}(q.Options),
	}
}
