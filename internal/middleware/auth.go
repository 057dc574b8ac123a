package middleware

import (
	"context"
	"strings"

	"devtasker/internal/apperr"
	"devtasker/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Locals keys set by UseToken.
const (
	UserKey    = "user"
	SessionKey = "session"
	TokenKey   = "token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error)
}

// UseToken resolves the bearer token to a user and stores it in Locals. Websocket
// upgrades may pass the token as the access_token query parameter instead, since
// browsers cannot set headers on them.
func UseToken(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		if token == "" && websocket.IsWebSocketUpgrade(c) {
			token = c.Query("access_token")
		}
		user, sess, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(UserKey, user)
		c.Locals(SessionKey, sess)
		c.Locals(TokenKey, token)
		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperr.Unauthenticated("The Authorization header must use the Bearer scheme.")
	}
	return parts[1], nil
}

// CurrentUser returns the user resolved by UseToken, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(UserKey).(*models.User)
	return u
}

// CurrentToken returns the raw bearer token of the request.
func CurrentToken(c *fiber.Ctx) string {
	t, _ := c.Locals(TokenKey).(string)
	return t
}
