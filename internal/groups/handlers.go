package groups

import (
	"github.com/suranovab/hw05-final/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireLogin fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		list, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Render("group_index", fiber.Map{"Groups": list})
	})

	r.Post("/", requireLogin, func(c *fiber.Ctx) error {
		var form GroupForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		group, err := svc.Create(c.Context(), form)
		if err != nil {
			if ve, ok := apperr.AsValidation(err); ok {
				return c.Render("group_index", fiber.Map{"Form": form, "Errors": ve.Fields})
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Redirect("/group/"+group.Slug, fiber.StatusSeeOther)
	})
}
