package handler

import (
	"log"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminHandler serves the platform operator endpoints. Every route here sits
// behind the admin-only middleware.
type AdminHandler struct {
	userRepo          *repository.UserRepository
	questionnaireRepo *repository.QuestionnaireRepository
	qrRepo            *repository.QRCodeRepository
	reviewRepo        *repository.ReviewRepository
	authRepo          *repository.AuthRepository
}

func NewAdminHandler(
	userRepo *repository.UserRepository,
	questionnaireRepo *repository.QuestionnaireRepository,
	qrRepo *repository.QRCodeRepository,
	reviewRepo *repository.ReviewRepository,
	authRepo *repository.AuthRepository,
) *AdminHandler {
	return &AdminHandler{
		userRepo:          userRepo,
		questionnaireRepo: questionnaireRepo,
		qrRepo:            qrRepo,
		reviewRepo:        reviewRepo,
		authRepo:          authRepo,
	}
}

// GetPlatformStats - GET /admin/stats
func (h *AdminHandler) GetPlatformStats(c *fiber.Ctx) error {
	usersByPlan, err := h.userRepo.CountByPlan()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch platform stats",
		))
	}

	var totalUsers int64
	for _, n := range usersByPlan {
		totalUsers += n
	}

	active := true
	_, activeUsers, err := h.userRepo.List("", nil, &active, 1, 1)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch platform stats",
		))
	}

	totalQuestionnaires, err := h.questionnaireRepo.CountAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch platform stats",
		))
	}
	totalQRCodes, err := h.qrRepo.CountAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch platform stats",
		))
	}
	totalScans, err := h.qrRepo.SumScans()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch platform stats",
		))
	}
	totalReviews, err := h.reviewRepo.CountAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch platform stats",
		))
	}
	reviewsBySentiment, err := h.reviewRepo.CountAllBySentiment()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch platform stats",
		))
	}

	return c.JSON(dto.SuccessResponse(dto.PlatformStatsDTO{
		TotalUsers:          totalUsers,
		ActiveUsers:         activeUsers,
		TotalQuestionnaires: totalQuestionnaires,
		TotalQRCodes:        totalQRCodes,
		TotalScans:          totalScans,
		TotalReviews:        totalReviews,
		ReviewsBySentiment:  reviewsBySentiment,
		UsersByPlan:         usersByPlan,
	}, ""))
}

// ListUsers - GET /admin/users?search=&plan=&is_active=&page=&limit=
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var plan *domain.PlanTier
	if v := c.Query("plan"); v != "" {
		p := domain.PlanTier(v)
		if !domain.ValidPlan(p) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Unknown plan filter",
			))
		}
		plan = &p
	}

	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		isActive = &active
	}

	users, total, err := h.userRepo.List(c.Query("search"), plan, isActive, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch users",
		))
	}

	result := make([]dto.AdminUserDTO, 0, len(users))
	for i := range users {
		result = append(result, toAdminUserDTO(&users[i]))
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return c.JSON(dto.PaginatedResponse(result, dto.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(totalPages),
	}))
}

// SetUserActive - PATCH /admin/users/:user_id/activate and /deactivate
func (h *AdminHandler) SetUserActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Params("user_id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Invalid user id",
			))
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
				"NOT_FOUND", "User not found",
			))
		}

		if err := h.userRepo.SetActive(user.ID, active); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
				"UPDATE_FAILED", "Failed to update user",
			))
		}

		if !active {
			// Deactivation kills every session so the user cannot keep a
			// refresh token alive.
			if _, err := h.authRepo.RevokeAllUserTokens(user.ID, "account_deactivated"); err != nil {
				log.Printf("Failed to revoke sessions for %s: %v", user.ID, err)
			}
		}

		user.IsActive = active
		msg := "User activated"
		if !active {
			msg = "User deactivated"
		}
		return c.JSON(dto.SuccessResponse(toAdminUserDTO(user), msg))
	}
}

// ChangeUserPlan - PATCH /admin/users/:user_id/plan
func (h *AdminHandler) ChangeUserPlan(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid user id",
		))
	}

	var req dto.ChangePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	plan := domain.PlanTier(req.Plan)
	if !domain.ValidPlan(plan) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Plan must be one of free, starter, business",
		))
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "User not found",
		))
	}

	if err := h.userRepo.SetPlan(user.ID, plan); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to change plan",
		))
	}

	user.Plan = plan
	return c.JSON(dto.SuccessResponse(toAdminUserDTO(user), "Plan changed"))
}

// CleanupExpiredQRCodes - POST /admin/qrcodes/cleanup deactivates every
// expired code in one pass.
func (h *AdminHandler) CleanupExpiredQRCodes(c *fiber.Ctx) error {
	deactivated, err := h.qrRepo.CleanupExpired()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"CLEANUP_FAILED", "Failed to clean up expired QR codes",
		))
	}

	log.Printf("Cleanup deactivated %d expired QR codes", deactivated)
	return c.JSON(dto.SuccessResponse(dto.CleanupResultDTO{Deactivated: deactivated}, "Cleanup finished"))
}

// CleanupExpiredTokens - POST /admin/tokens/cleanup purges expired refresh
// tokens and blacklist entries.
func (h *AdminHandler) CleanupExpiredTokens(c *fiber.Ctx) error {
	if err := h.authRepo.CleanupExpiredTokens(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"CLEANUP_FAILED", "Failed to clean up expired tokens",
		))
	}
	return c.JSON(dto.SuccessResponse(nil, "Cleanup finished"))
}

func toAdminUserDTO(u *domain.User) dto.AdminUserDTO {
	return dto.AdminUserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		BusinessName: u.BusinessName,
		Role:         string(u.Role),
		Plan:         string(u.Plan),
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}
