package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie holds the signed session token in the browser.
const SessionCookie = "session"

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

// LoadViewer resolves the session token, when present, into
// user_id/username locals. Anonymous requests pass through untouched,
// so public pages can still personalize for logged-in viewers.
func LoadViewer(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			token = bearerFromHeader(c.Get("Authorization"))
		}
		if token == "" {
			return c.Next()
		}

		parsed, err := parseMiddlewareClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			return c.Next()
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid {
			return c.Next()
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)
		return c.Next()
	}
}

// RequireLogin redirects anonymous requests to the login prompt with a
// return path. Runs after LoadViewer.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("user_id") == nil {
			return c.Redirect("/auth/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// Viewer returns the authenticated user's id, or "" when anonymous.
func Viewer(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
