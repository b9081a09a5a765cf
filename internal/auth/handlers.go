package auth

import (
	"time"

	"github.com/suranovab/hw05-final/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/signup", func(c *fiber.Ctx) error {
		return c.Render("signup", fiber.Map{})
	})

	r.Post("/signup", func(c *fiber.Ctx) error {
		var form SignupForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		user, token, err := svc.Register(c.Context(), form)
		if err != nil {
			if ve, ok := apperr.AsValidation(err); ok {
				return c.Render("signup", fiber.Map{"Form": form, "Errors": ve.Fields})
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		setSessionCookie(c, token)
		return c.Redirect("/profile/"+user.Username, fiber.StatusSeeOther)
	})

	r.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("login", fiber.Map{"Next": c.Query("next")})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var form LoginForm
		if err := c.BodyParser(&form); err != nil || form.Username == "" || form.Password == "" {
			return c.Render("login", fiber.Map{"Form": form, "Error": "username and password required"})
		}
		_, token, err := svc.Login(c.Context(), form)
		if err != nil {
			return c.Render("login", fiber.Map{"Form": form, "Error": "invalid credentials"})
		}
		setSessionCookie(c, token)
		next := c.FormValue("next")
		if next == "" || next[0] != '/' {
			next = "/"
		}
		return c.Redirect(next, fiber.StatusSeeOther)
	})

	r.Get("/logout", func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
		})
		return c.Redirect("/", fiber.StatusSeeOther)
	})
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
