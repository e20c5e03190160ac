package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/auth"
	"docvault/internal/model"
)

// ActorLocalKey is the key used to store the authenticated actor in Fiber's
// context locals.
const ActorLocalKey = "actor"

// TokenVerifier verifies a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved actor in context locals for downstream handlers.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		id, err := verifier.Verify(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(ActorLocalKey, id.Actor())
		return c.Next()
	}
}

// RequireRole rejects authenticated requests whose actor holds none of the
// given roles. Must run after RequireAuth.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// ActorFromCtx extracts the actor stored by RequireAuth.
func ActorFromCtx(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(ActorLocalKey).(model.Actor)
	return actor, ok
}
