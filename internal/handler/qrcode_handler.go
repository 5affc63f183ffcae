package handler

import (
	"log"
	"strings"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/middleware"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultForeground = "#000000"
const defaultBackground = "#ffffff"

type QRCodeHandler struct {
	qrRepo            *repository.QRCodeRepository
	questionnaireRepo *repository.QuestionnaireRepository
	qrService         *service.QRService
}

func NewQRCodeHandler(qrRepo *repository.QRCodeRepository, questionnaireRepo *repository.QuestionnaireRepository, qrService *service.QRService) *QRCodeHandler {
	return &QRCodeHandler{
		qrRepo:            qrRepo,
		questionnaireRepo: questionnaireRepo,
		qrService:         qrService,
	}
}

// List - GET /questionnaires/:id/qrcodes
func (h *QRCodeHandler) List(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	codes, err := h.qrRepo.ListByQuestionnaire(q.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch QR codes",
		))
	}

	result := make([]dto.QRCodeDTO, 0, len(codes))
	for i := range codes {
		result = append(result, h.toDTO(&codes[i]))
	}
	return c.JSON(dto.SuccessResponse(result, ""))
}

// Create - POST /questionnaires/:id/qrcodes
func (h *QRCodeHandler) Create(c *fiber.Ctx) error {
	q, err := resolveOwnedQuestionnaire(c, h.questionnaireRepo)
	if q == nil {
		return err
	}

	var req dto.CreateQRCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" || len(req.Label) > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Label must be 1-100 characters",
		))
	}

	code := &domain.QRCode{
		QuestionnaireID: q.ID,
		Label:           req.Label,
		ForegroundColor: defaultForeground,
		BackgroundColor: defaultBackground,
		Size:            512,
		ErrorCorrection: domain.ECLevelMedium,
		IsActive:        true,
	}

	if status, msg := h.applyAppearance(c, code, req.ForegroundColor, req.BackgroundColor, req.LogoURL, req.Size, req.ErrorCorrection); status != 0 {
		return c.Status(status).JSON(dto.ErrorResponse(errCodeForStatus(status), msg))
	}

	if req.ExpiresAt != nil {
		if req.ExpiresAt.Before(time.Now()) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "expires_at must be in the future",
			))
		}
		code.ExpiresAt = req.ExpiresAt
	}

	// Retry slug generation on the rare collision.
	for attempt := 0; attempt < 3; attempt++ {
		slug := service.NewCodeSlug()
		exists, err := h.qrRepo.CodeExists(slug)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
				"INTERNAL_ERROR", "Failed to generate code",
			))
		}
		if !exists {
			code.Code = slug
			break
		}
	}
	if code.Code == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to generate code",
		))
	}

	if req.TargetURL != nil && *req.TargetURL != "" {
		code.TargetURL = *req.TargetURL
	} else {
		code.TargetURL = h.qrService.ScanURL(code.Code)
	}

	if err := h.qrRepo.Create(code); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"CREATE_FAILED", "Failed to create QR code",
		))
	}

	if key, err := h.qrService.Render(c.Context(), code); err != nil {
		// The row is still usable; the image can be regenerated later.
		log.Printf("QR render failed for %s: %v", code.Code, err)
	} else {
		code.ImageKey = &key
		if err := h.qrRepo.Update(code); err != nil {
			log.Printf("Failed to persist image key for %s: %v", code.Code, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(h.toDTO(code), "QR code created"))
}

// GetByID - GET /qrcodes/:qr_id
func (h *QRCodeHandler) GetByID(c *fiber.Ctx) error {
	code, err := h.ownedQRCode(c)
	if code == nil {
		return err
	}
	return c.JSON(dto.SuccessResponse(h.toDTO(code), ""))
}

// Update - PATCH /qrcodes/:qr_id
func (h *QRCodeHandler) Update(c *fiber.Ctx) error {
	code, err := h.ownedQRCode(c)
	if code == nil {
		return err
	}

	var req dto.UpdateQRCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" || len(label) > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Label must be 1-100 characters",
			))
		}
		code.Label = label
	}
	if req.TargetURL != nil && *req.TargetURL != "" {
		code.TargetURL = *req.TargetURL
	}
	if req.ExpiresAt != nil {
		code.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		code.IsActive = *req.IsActive
	}

	appearanceChanged := req.ForegroundColor != nil || req.BackgroundColor != nil ||
		req.LogoURL != nil || req.Size != nil || req.ErrorCorrection != nil
	if status, msg := h.applyAppearance(c, code, req.ForegroundColor, req.BackgroundColor, req.LogoURL, req.Size, req.ErrorCorrection); status != 0 {
		return c.Status(status).JSON(dto.ErrorResponse(errCodeForStatus(status), msg))
	}

	if err := h.qrRepo.Update(code); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to update QR code",
		))
	}

	if appearanceChanged {
		if key, err := h.qrService.Render(c.Context(), code); err != nil {
			log.Printf("QR re-render failed for %s: %v", code.Code, err)
		} else if code.ImageKey == nil || *code.ImageKey != key {
			code.ImageKey = &key
			if err := h.qrRepo.Update(code); err != nil {
				log.Printf("Failed to persist image key for %s: %v", code.Code, err)
			}
		}
	}

	return c.JSON(dto.SuccessResponse(h.toDTO(code), "QR code updated"))
}

// Delete - DELETE /qrcodes/:qr_id (soft delete, image removed from storage)
func (h *QRCodeHandler) Delete(c *fiber.Ctx) error {
	code, err := h.ownedQRCode(c)
	if code == nil {
		return err
	}

	if err := h.qrRepo.SoftDelete(code.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"DELETE_FAILED", "Failed to delete QR code",
		))
	}

	if code.ImageKey != nil {
		if err := h.qrService.Remove(*code.ImageKey); err != nil {
			log.Printf("Failed to remove QR image %s: %v", *code.ImageKey, err)
		}
	}

	return c.JSON(dto.SuccessResponse(nil, "QR code deleted"))
}

// Regenerate - POST /qrcodes/:qr_id/regenerate re-renders the PNG from the stored row.
func (h *QRCodeHandler) Regenerate(c *fiber.Ctx) error {
	code, err := h.ownedQRCode(c)
	if code == nil {
		return err
	}

	key, err := h.qrService.Render(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"RENDER_FAILED", "Failed to render QR image",
		))
	}
	code.ImageKey = &key
	if err := h.qrRepo.Update(code); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"UPDATE_FAILED", "Failed to update QR code",
		))
	}

	return c.JSON(dto.SuccessResponse(h.toDTO(code), "QR image regenerated"))
}

// GetStatistics - GET /qrcodes/statistics aggregates scans across the caller's codes.
func (h *QRCodeHandler) GetStatistics(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	stats, err := h.qrRepo.GetScanStatistics(*userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"FETCH_FAILED", "Failed to fetch scan statistics",
		))
	}

	return c.JSON(dto.SuccessResponse(dto.ScanStatisticsDTO{
		TotalQRCodes:      stats.TotalQRCodes,
		ActiveQRCodes:     stats.ActiveQRCodes,
		TotalScans:        stats.TotalScans,
		TotalUniqueScans:  stats.TotalUniqueScans,
		AverageScansPerQR: stats.AverageScansPerQR,
	}, ""))
}

// ============================================================================
// HELPERS
// ============================================================================

// applyAppearance validates and applies the appearance fields, enforcing the
// plan gates for custom colors and logos. Returns (0, "") when everything is fine.
func (h *QRCodeHandler) applyAppearance(c *fiber.Ctx, code *domain.QRCode, fg, bg, logoURL *string, size *int, ec *string) (int, string) {
	plan := middleware.GetUserPlan(c)
	isAdmin := middleware.GetUserRole(c) == string(domain.RoleAdmin)

	if fg != nil || bg != nil {
		if !isAdmin && !domain.PlanHasFeature(plan, domain.FeatureCustomQRColors) {
			return fiber.StatusForbidden, "Custom QR colors require the starter plan or above"
		}
		if fg != nil {
			if !service.ValidateHexColor(*fg) {
				return fiber.StatusBadRequest, "foreground_color must be #rrggbb"
			}
			code.ForegroundColor = *fg
		}
		if bg != nil {
			if !service.ValidateHexColor(*bg) {
				return fiber.StatusBadRequest, "background_color must be #rrggbb"
			}
			code.BackgroundColor = *bg
		}
	}

	if logoURL != nil && *logoURL != "" {
		if !isAdmin && !domain.PlanHasFeature(plan, domain.FeatureQRLogo) {
			return fiber.StatusForbidden, "QR logos require the business plan"
		}
		code.LogoURL = logoURL
	}

	if size != nil {
		if !service.ValidQRSize(*size) {
			return fiber.StatusBadRequest, "size must be between 128 and 1024 pixels"
		}
		code.Size = *size
	}

	if ec != nil {
		level := domain.ErrorCorrectionLevel(strings.ToUpper(*ec))
		if !service.ValidErrorCorrection(level) {
			return fiber.StatusBadRequest, "error_correction must be one of L, M, Q, H"
		}
		code.ErrorCorrection = level
	}

	return 0, ""
}

func errCodeForStatus(status int) string {
	if status == fiber.StatusForbidden {
		return "PLAN_UPGRADE_REQUIRED"
	}
	return "VALIDATION_ERROR"
}

// ownedQRCode resolves :qr_id and checks ownership through the parent
// questionnaire. On failure the error response has already been written.
func (h *QRCodeHandler) ownedQRCode(c *fiber.Ctx) (*domain.QRCode, error) {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	id, err := uuid.Parse(c.Params("qr_id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid QR code id",
		))
	}

	code, err := h.qrRepo.FindByID(id)
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "QR code not found",
		))
	}

	q, err := h.questionnaireRepo.FindByID(code.QuestionnaireID)
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"NOT_FOUND", "QR code not found",
		))
	}
	if q.UserID != *userID && middleware.GetUserRole(c) != string(domain.RoleAdmin) {
		return nil, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse(
			"FORBIDDEN", "You do not own this QR code",
		))
	}

	return code, nil
}

func (h *QRCodeHandler) toDTO(code *domain.QRCode) dto.QRCodeDTO {
	var imageURL *string
	if code.ImageKey != nil {
		url := h.qrService.PublicImageURL(*code.ImageKey)
		imageURL = &url
	}
	return dto.QRCodeDTO{
		ID:              code.ID,
		QuestionnaireID: code.QuestionnaireID,
		Code:            code.Code,
		Label:           code.Label,
		TargetURL:       code.TargetURL,
		ScanURL:         h.qrService.ScanURL(code.Code),
		ImageURL:        imageURL,
		LogoURL:         code.LogoURL,
		ForegroundColor: code.ForegroundColor,
		BackgroundColor: code.BackgroundColor,
		Size:            code.Size,
		ErrorCorrection: string(code.ErrorCorrection),
		ScanCount:       code.ScanCount,
		UniqueScans:     code.UniqueScans,
		LastScanAt:      code.LastScanAt,
		ExpiresAt:       code.ExpiresAt,
		IsExpired:       code.IsExpired(),
		IsActive:        code.IsActive,
		CreatedAt:       code.CreatedAt,
	}
}
