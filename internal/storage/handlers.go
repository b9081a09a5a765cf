package storage

import (
	"github.com/suranovab/hw05-final/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireLogin fiber.Handler) {
	r.Post("/upload", requireLogin, func(c *fiber.Ctx) error {
		var body struct {
			FileName string `form:"file_name" json:"file_name"`
			Kind     string `form:"kind" json:"kind"`
		}
		_ = c.BodyParser(&body)
		if body.FileName == "" {
			body.FileName = "upload"
		}
		url := "https://storage.example/posts/" + body.FileName
		id, err := svc.SaveObject(c.Context(), auth.Viewer(c), url, body.Kind)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"id":  id,
			"url": url,
		})
	})
}
