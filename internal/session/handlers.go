package session

import (
	"errors"

	"github.com/KhawajaJ/territorycycle/internal/auth"
	"github.com/KhawajaJ/territorycycle/internal/ride"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, mgr *Manager, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Kind string `json:"kind"`
		}
		if err := c.BodyParser(&body); err != nil || body.Kind == "" {
			return fiber.NewError(fiber.StatusBadRequest, "kind required")
		}
		status, err := mgr.Start(auth.OwnerID(c), ride.Kind(body.Kind))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(status)
	})

	r.Post("/:id/samples", authMiddleware, func(c *fiber.Ctx) error {
		var sample LocationSample
		if err := c.BodyParser(&sample); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		result, err := mgr.AddSample(c.Params("id"), auth.OwnerID(c), sample)
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(result)
	})

	r.Post("/:id/pause", authMiddleware, func(c *fiber.Ctx) error {
		status, err := mgr.Pause(c.Params("id"), auth.OwnerID(c))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(status)
	})

	r.Post("/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		status, err := mgr.Resume(c.Params("id"), auth.OwnerID(c))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(status)
	})

	r.Post("/:id/end", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Save bool `json:"save"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		saved, ok, err := mgr.End(c.Context(), c.Params("id"), auth.OwnerID(c), body.Save)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEnded) {
				return sessionError(err)
			}
			// Persistence failure: the session is already gone.
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		if !ok {
			return c.JSON(fiber.Map{"saved": false})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"saved": true, "ride": saved})
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		status, err := mgr.Status(c.Params("id"), auth.OwnerID(c))
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(status)
	})
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotRecording), errors.Is(err, ErrNotPaused), errors.Is(err, ErrEnded):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
