package middleware

import (
	"time"

	contextPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/context"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionIDKey      = contextPkg.SessionIDLocal
	SessionCookieName = "console_session"
	sessionQueryParam = "session"
)

// NewSessionMiddleware resolves the operator session from the X-Session-ID
// header, the console_session cookie or the session query parameter, in
// that order, and opens a new one when none is given.
func NewSessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Get(SessionIDKey)
		if sessionID == "" {
			sessionID = c.Cookies(SessionCookieName)
		}
		if sessionID == "" {
			sessionID = c.Query(sessionQueryParam)
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Expires:  time.Now().Add(24 * time.Hour),
			})
		}

		c.Locals(SessionIDKey, sessionID)
		c.Set(SessionIDKey, sessionID)

		return c.Next()
	}
}
