package handler

import (
	"strings"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/middleware"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type ProfileHandler struct {
	userRepo *repository.UserRepository
}

func NewProfileHandler(userRepo *repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo}
}

func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	user, err := h.userRepo.FindByID(*userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "User not found",
		))
	}

	return c.JSON(dto.SuccessResponse(dto.ProfileDTO{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		BusinessName: user.BusinessName,
		Role:         string(user.Role),
		Plan:         string(user.Plan),
		IsActive:     user.IsActive,
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
	}, ""))
}

func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	user, err := h.userRepo.FindByID(*userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "User not found",
		))
	}

	if req.BusinessName != nil {
		name := strings.TrimSpace(*req.BusinessName)
		if name == "" || len(name) > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Business name must be 1-100 characters",
			))
		}
		user.BusinessName = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !strings.Contains(email, "@") {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Email is not valid",
			))
		}
		if taken, _ := h.userRepo.EmailExists(email, userID); taken {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse(
				"EMAIL_TAKEN", "Email is already in use",
			))
		}
		user.Email = email
	}

	if err := h.userRepo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to update profile",
		))
	}

	return c.JSON(dto.SuccessResponse(nil, "Profile updated"))
}

func (h *ProfileHandler) UpdatePassword(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "New password must be at least 8 characters",
		))
	}

	user, err := h.userRepo.FindByID(*userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "User not found",
		))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"INVALID_CREDENTIALS", "Current password is wrong",
		))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to hash password",
		))
	}

	user.PasswordHash = string(hash)
	if err := h.userRepo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to update password",
		))
	}

	return c.JSON(dto.SuccessResponse(nil, "Password updated"))
}
