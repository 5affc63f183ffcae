package middleware

import (
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// PlanMiddleware gates routes on the caller's subscription tier.
type PlanMiddleware struct{}

func NewPlanMiddleware() *PlanMiddleware {
	return &PlanMiddleware{}
}

// RequireFeature checks if user has admin role OR the feature on their plan tier
func (m *PlanMiddleware) RequireFeature(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Locals("userRole")
		if role == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
				"UNAUTHORIZED",
				"User is not authenticated",
			))
		}

		// Admin bypasses plan gating
		if role.(string) == string(domain.RoleAdmin) {
			return c.Next()
		}

		if !domain.PlanHasFeature(GetUserPlan(c), feature) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse(
				"PLAN_UPGRADE_REQUIRED",
				"Your current plan does not include this feature",
			))
		}

		return c.Next()
	}
}
