package cache

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pagecache:"

// New returns middleware serving GET responses from redis, keyed by
// the request URL. Entries expire by TTL only; writes elsewhere do not
// invalidate them, so a page may be stale for up to one TTL window.
// With a nil client the middleware is a pass-through.
func New(rdb *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := keyPrefix + c.OriginalURL()
		if cached, err := rdb.Get(c.Context(), key).Bytes(); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() == fiber.StatusOK {
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			if err := rdb.Set(c.Context(), key, body, ttl).Err(); err != nil {
				// serve the page anyway; the cache is best effort
				return nil
			}
		}
		return nil
	}
}
