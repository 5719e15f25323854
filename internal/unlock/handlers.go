package unlock

import (
	"github.com/KhawajaJ/territorycycle/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/:fingerprint", authMiddleware, func(c *fiber.Ctx) error {
		result, err := svc.Evaluate(c.Context(), auth.OwnerID(c), c.Params("fingerprint"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	})
}
