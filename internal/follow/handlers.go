package follow

import (
	"github.com/suranovab/hw05-final/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireLogin fiber.Handler) {
	r.Post("/profile/:username/follow", requireLogin, func(c *fiber.Ctx) error {
		if err := svc.Follow(c.Context(), auth.Viewer(c), c.Params("username")); err != nil {
			return err
		}
		return c.Redirect("/follow", fiber.StatusSeeOther)
	})

	r.Post("/profile/:username/unfollow", requireLogin, func(c *fiber.Ctx) error {
		if err := svc.Unfollow(c.Context(), auth.Viewer(c), c.Params("username")); err != nil {
			return err
		}
		return c.Redirect("/follow", fiber.StatusSeeOther)
	})
}
