package posts

import (
	"errors"

	"github.com/suranovab/hw05-final/internal/auth"
	"github.com/suranovab/hw05-final/internal/shared/apperr"
	"github.com/suranovab/hw05-final/internal/shared/page"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the listing and mutation pages. indexCache is
// applied to the landing page only; pass nil to serve it uncached.
func RegisterRoutes(r fiber.Router, svc *Service, requireLogin, indexCache fiber.Handler) {
	if indexCache == nil {
		indexCache = func(c *fiber.Ctx) error { return c.Next() }
	}

	r.Get("/", indexCache, func(c *fiber.Ctx) error {
		result, err := svc.ListAll(c.Context(), page.Parse(c.Query("page")))
		if err != nil {
			return err
		}
		return c.Render("index", fiber.Map{"Page": result})
	})

	r.Get("/group/:slug", func(c *fiber.Ctx) error {
		group, result, err := svc.ListByGroup(c.Context(), c.Params("slug"), page.Parse(c.Query("page")))
		if err != nil {
			return err
		}
		return c.Render("group_list", fiber.Map{"Group": group, "Page": result})
	})

	r.Get("/profile/:username", func(c *fiber.Ctx) error {
		profile, err := svc.ListByAuthor(c.Context(), c.Params("username"), auth.Viewer(c), page.Parse(c.Query("page")))
		if err != nil {
			return err
		}
		return c.Render("profile", fiber.Map{"Profile": profile})
	})

	r.Get("/follow", requireLogin, func(c *fiber.Ctx) error {
		result, err := svc.Feed(c.Context(), auth.Viewer(c), page.Parse(c.Query("page")))
		if err != nil {
			return err
		}
		return c.Render("follow", fiber.Map{"Page": result})
	})

	r.Get("/posts/create", requireLogin, func(c *fiber.Ctx) error {
		return c.Render("create_post", fiber.Map{})
	})

	r.Post("/posts/create", requireLogin, func(c *fiber.Ctx) error {
		var form PostForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if _, err := svc.Create(c.Context(), auth.Viewer(c), form); err != nil {
			if ve, ok := apperr.AsValidation(err); ok {
				return c.Render("create_post", fiber.Map{"Form": form, "Errors": ve.Fields})
			}
			return err
		}
		username, _ := c.Locals("username").(string)
		return c.Redirect("/profile/"+username, fiber.StatusSeeOther)
	})

	r.Get("/posts/:id", func(c *fiber.Ctx) error {
		detail, err := svc.GetDetail(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.Render("post_detail", fiber.Map{"Detail": detail, "Viewer": auth.Viewer(c)})
	})

	r.Get("/posts/:id/edit", requireLogin, func(c *fiber.Ctx) error {
		detail, err := svc.GetDetail(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		// non-authors land on the read-only detail view
		if detail.Post.AuthorID != auth.Viewer(c) {
			return c.Redirect("/posts/"+detail.Post.ID, fiber.StatusSeeOther)
		}
		form := PostForm{Text: detail.Post.Text}
		if detail.Post.GroupID != nil {
			form.GroupID = *detail.Post.GroupID
		}
		if detail.Post.ImageURL != nil {
			form.ImageURL = *detail.Post.ImageURL
		}
		return c.Render("create_post", fiber.Map{"Form": form, "IsEdit": true, "PostID": detail.Post.ID})
	})

	r.Post("/posts/:id/edit", requireLogin, func(c *fiber.Ctx) error {
		postID := c.Params("id")
		var form PostForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		err := svc.Update(c.Context(), auth.Viewer(c), postID, form)
		if errors.Is(err, apperr.ErrForbidden) {
			return c.Redirect("/posts/"+postID, fiber.StatusSeeOther)
		}
		if err != nil {
			if ve, ok := apperr.AsValidation(err); ok {
				return c.Render("create_post", fiber.Map{"Form": form, "Errors": ve.Fields, "IsEdit": true, "PostID": postID})
			}
			return err
		}
		return c.Redirect("/posts/"+postID, fiber.StatusSeeOther)
	})

	r.Post("/posts/:id/comment", requireLogin, func(c *fiber.Ctx) error {
		postID := c.Params("id")
		var form CommentForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if _, err := svc.AddComment(c.Context(), auth.Viewer(c), postID, form); err != nil {
			if ve, ok := apperr.AsValidation(err); ok {
				detail, derr := svc.GetDetail(c.Context(), postID)
				if derr != nil {
					return derr
				}
				return c.Render("post_detail", fiber.Map{
					"Detail": detail, "Viewer": auth.Viewer(c),
					"CommentForm": form, "Errors": ve.Fields,
				})
			}
			return err
		}
		return c.Redirect("/posts/"+postID, fiber.StatusSeeOther)
	})
}
