package handler

import (
	"regexp"
	"strings"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/auth"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/middleware"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

type AuthHandler struct {
	userRepo *repository.UserRepository
	authRepo *repository.AuthRepository
	jwt      *auth.JWTService
}

func NewAuthHandler(userRepo *repository.UserRepository, authRepo *repository.AuthRepository, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		authRepo: authRepo,
		jwt:      jwt,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !usernamePattern.MatchString(req.Username) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Username must be 3-30 characters of a-z, 0-9 or underscore",
		))
	}
	if !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Email is not valid",
		))
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Password must be at least 8 characters",
		))
	}
	if req.BusinessName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Business name is required",
		))
	}

	if taken, _ := h.userRepo.UsernameExists(req.Username, nil); taken {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse(
			"USERNAME_TAKEN", "Username is already in use",
		))
	}
	if taken, _ := h.userRepo.EmailExists(req.Email, nil); taken {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse(
			"EMAIL_TAKEN", "Email is already in use",
		))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to hash password",
		))
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		BusinessName: req.BusinessName,
		Role:         domain.RoleBusiness,
		Plan:         domain.PlanFree,
		IsActive:     true,
	}
	if err := h.userRepo.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"CREATE_FAILED", "Failed to create account",
		))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(dto.UserBriefDTO{
		ID:           user.ID,
		Username:     user.Username,
		BusinessName: user.BusinessName,
		Role:         string(user.Role),
		Plan:         string(user.Plan),
	}, "Account created"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	user, err := h.userRepo.FindByUsernameOrEmail(req.Username)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"INVALID_CREDENTIALS", "Wrong username or password",
		))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"INVALID_CREDENTIALS", "Wrong username or password",
		))
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse(
			"ACCOUNT_DISABLED", "Your account has been disabled",
		))
	}

	// Generate tokens
	accessToken, _, err := h.jwt.GenerateAccessToken(user.ID, string(user.Role), string(user.Plan))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to generate token",
		))
	}

	refreshToken, tokenHash, expiresAt := h.jwt.GenerateRefreshToken()
	familyID := uuid.New()

	deviceInfo := domain.JSONB{
		"user_agent": c.Get("User-Agent"),
	}
	ipAddress := c.IP()

	rt := &domain.RefreshToken{
		UserID:     user.ID,
		TokenHash:  tokenHash,
		FamilyID:   familyID,
		DeviceInfo: deviceInfo,
		IPAddress:  &ipAddress,
		ExpiresAt:  expiresAt,
	}
	if err := h.authRepo.CreateRefreshToken(rt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to store token",
		))
	}

	h.userRepo.TouchLastLogin(user.ID)

	h.setRefreshCookie(c, refreshToken, expiresAt)

	return c.JSON(dto.SuccessResponse(dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.jwt.GetAccessExpiry().Seconds()),
		User: dto.UserBriefDTO{
			ID:           user.ID,
			Username:     user.Username,
			BusinessName: user.BusinessName,
			Role:         string(user.Role),
			Plan:         string(user.Plan),
		},
	}, ""))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"TOKEN_EXPIRED", "Missing refresh token, please log in again",
		))
	}

	tokenHash := auth.HashToken(refreshToken)
	storedToken, err := h.authRepo.FindRefreshTokenByHash(tokenHash)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"TOKEN_EXPIRED", "Invalid refresh token, please log in again",
		))
	}

	// Check if token is revoked (potential reuse attack)
	if storedToken.IsRevoked {
		// Revoke entire token family
		h.authRepo.RevokeTokenFamily(storedToken.FamilyID, "token_reuse_detected")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"TOKEN_REUSE_DETECTED", "Suspicious activity detected, all sessions have been terminated",
		))
	}

	if time.Now().After(storedToken.ExpiresAt) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"TOKEN_EXPIRED", "Refresh token has expired, please log in again",
		))
	}

	user, err := h.userRepo.FindByID(storedToken.UserID)
	if err != nil || !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User not found or inactive",
		))
	}

	// Rotate: revoke old token, issue a new one in the same family
	h.authRepo.RevokeRefreshToken(storedToken.ID, "rotated")

	accessToken, _, err := h.jwt.GenerateAccessToken(user.ID, string(user.Role), string(user.Plan))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to generate token",
		))
	}

	newRefreshToken, newTokenHash, expiresAt := h.jwt.GenerateRefreshToken()

	rt := &domain.RefreshToken{
		UserID:     user.ID,
		TokenHash:  newTokenHash,
		FamilyID:   storedToken.FamilyID,
		DeviceInfo: storedToken.DeviceInfo,
		IPAddress:  storedToken.IPAddress,
		ExpiresAt:  expiresAt,
	}
	if err := h.authRepo.CreateRefreshToken(rt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to store token",
		))
	}

	h.setRefreshCookie(c, newRefreshToken, expiresAt)

	return c.JSON(dto.SuccessResponse(dto.RefreshResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.jwt.GetAccessExpiry().Seconds()),
	}, ""))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		tokenHash := auth.HashToken(refreshToken)
		storedToken, err := h.authRepo.FindRefreshTokenByHash(tokenHash)
		if err == nil {
			h.authRepo.RevokeRefreshToken(storedToken.ID, "logout")
		}
	}

	h.clearRefreshCookie(c)

	return c.JSON(dto.SuccessResponse(nil, "Logged out"))
}

func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	count, err := h.authRepo.RevokeAllUserTokens(*userID, "logout_all")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to log out from all devices",
		))
	}

	h.clearRefreshCookie(c)

	return c.JSON(dto.SuccessResponse(dto.LogoutAllResponse{
		SessionsTerminated: int(count),
	}, "Logged out from all devices"))
}

func (h *AuthHandler) GetSessions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	sessions, err := h.authRepo.GetUserSessions(*userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to fetch sessions",
		))
	}

	currentTokenHash := ""
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		currentTokenHash = auth.HashToken(refreshToken)
	}

	var sessionDTOs []dto.SessionDTO
	for _, s := range sessions {
		var lastUsed *string
		if s.LastUsedAt != nil {
			t := s.LastUsedAt.Format(time.RFC3339)
			lastUsed = &t
		}

		sessionDTOs = append(sessionDTOs, dto.SessionDTO{
			ID:         s.ID,
			DeviceInfo: s.DeviceInfo,
			IPAddress:  s.IPAddress,
			CreatedAt:  s.CreatedAt.Format(time.RFC3339),
			LastUsedAt: lastUsed,
			IsCurrent:  s.TokenHash == currentTokenHash,
		})
	}

	return c.JSON(dto.SuccessResponse(sessionDTOs, ""))
}

func (h *AuthHandler) DeleteSession(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "User is not authenticated",
		))
	}

	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid session id",
		))
	}

	session, err := h.authRepo.FindRefreshTokenByID(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse(
			"SESSION_NOT_FOUND", "Session not found",
		))
	}

	if session.UserID != *userID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse(
			"FORBIDDEN", "You do not own this session",
		))
	}

	if err := h.authRepo.RevokeRefreshToken(sessionID, "manual_revoke"); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to revoke session",
		))
	}

	return c.JSON(dto.SuccessResponse(nil, "Session revoked"))
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: "Strict",
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: "Strict",
	})
}
