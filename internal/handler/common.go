package handler

import (
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/middleware"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// resolveOwnedQuestionnaire loads the :id questionnaire and checks that the
// caller owns it. Admins may access any questionnaire. On failure the error
// response has already been written; the caller just returns err.
func resolveOwnedQuestionnaire(c *fiber.Ctx, repo *repository.QuestionnaireRepository) (*domain.Questionnaire, error) {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid questionnaire id",
		))
	}

	q, err := repo.FindByID(id)
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "Questionnaire not found",
		))
	}

	if q.UserID != *userID && middleware.GetUserRole(c) != string(domain.RoleAdmin) {
		return nil, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse(
			"FORBIDDEN", "You do not own this questionnaire",
		))
	}

	return q, nil
}
