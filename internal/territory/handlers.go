package territory

import (
	"errors"
	"strconv"

	"github.com/KhawajaJ/territorycycle/internal/auth"
	"github.com/KhawajaJ/territorycycle/internal/hexgrid"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/claims", authMiddleware, func(c *fiber.Ctx) error {
		var req ClaimRequest
		if err := c.BodyParser(&req); err != nil || req.CellID == "" || req.Fingerprint == "" {
			return fiber.NewError(fiber.StatusBadRequest, "cell_id and route_fingerprint required")
		}
		tile, err := svc.Claim(c.Context(), auth.OwnerID(c), req)
		if err != nil {
			switch {
			case errors.Is(err, hexgrid.ErrInvalidCell):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, ErrLocked), errors.Is(err, ErrNotVisited):
				return fiber.NewError(fiber.StatusForbidden, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.Status(fiber.StatusCreated).JSON(tile)
	})

	r.Get("/owned", authMiddleware, func(c *fiber.Ctx) error {
		tiles, err := svc.Owned(c.Context(), auth.OwnerID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if tiles == nil {
			tiles = []Tile{}
		}
		return c.JSON(tiles)
	})

	r.Get("/cells/:id", func(c *fiber.Ctx) error {
		boundary, err := hexgrid.Boundary(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{"cell_id": c.Params("id"), "boundary": boundary})
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}
		radiusKm, err := strconv.ParseFloat(c.Query("radius_km", "1"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid radius_km")
		}
		tiles, err := svc.Nearby(c.Context(), lat, lng, radiusKm)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if tiles == nil {
			tiles = []Tile{}
		}
		return c.JSON(tiles)
	})
}
