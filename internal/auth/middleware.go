package auth

import (
	"github.com/goboardhq/goboard/internal/models/forum"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sessionCookie = "session_token"

// SessionCookieName is the cookie the login handler sets and the session
// middleware reads.
func SessionCookieName() string { return sessionCookie }

// SessionMiddleware resolves the session cookie to an authenticated user
// once per request. The user row is re-fetched from the store every time,
// never cached across requests, and handed to handlers through locals.
// Requests without a valid session pass through unauthenticated;
// RequireUser is the gate for protected routes.
func SessionMiddleware(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(sessionCookie)
		if token == "" {
			return c.Next()
		}

		claims, err := VerifyToken(token, PurposeSession)
		if err != nil {
			opt.Logger.Debug(c.Context()).WithFields("error", err).Logs("Session token rejected")
			c.ClearCookie(sessionCookie)
			return c.Next()
		}

		// Logout blacklists the token until its natural expiry.
		if opt.Rclient != nil {
			if exists, _ := opt.Rclient.Exists(c.Context(), "blacklist:session:"+claims.ID).Result(); exists > 0 {
				c.ClearCookie(sessionCookie)
				return c.Next()
			}
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.ClearCookie(sessionCookie)
			return c.Next()
		}

		user, err := forum.GetUserBy(c.Context(), opt.DB, "id = ?", []interface{}{userID})
		if err != nil {
			opt.Logger.Warn(c.Context()).WithFields("user_id", claims.Subject).Logs("Session user no longer exists")
			c.ClearCookie(sessionCookie)
			return c.Next()
		}

		c.Locals("current_user", user)
		c.Locals("user_id", user.ID.String())
		return c.Next()
	}
}

// RequireUser rejects the request with 401 unless the session middleware
// resolved an authenticated user.
func RequireUser(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			opt.Logger.Debug(c.Context()).WithFields("path", c.Path()).Logs("Unauthenticated request to protected route")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Login required",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user for this request, or nil.
func CurrentUser(c *fiber.Ctx) *forum.User {
	user, _ := c.Locals("current_user").(*forum.User)
	return user
}
