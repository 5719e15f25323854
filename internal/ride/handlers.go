package ride

import (
	"github.com/KhawajaJ/territorycycle/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		rides, err := svc.History(c.Context(), auth.OwnerID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if rides == nil {
			rides = []Ride{}
		}
		return c.JSON(rides)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		ride, err := svc.Get(c.Context(), auth.OwnerID(c), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ride not found")
		}
		return c.JSON(ride)
	})
}
