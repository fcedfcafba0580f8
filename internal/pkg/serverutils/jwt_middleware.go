package serverutils

import (
	"errors"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var errNoToken = errors.New("missing token")

// JwtMiddleware rejects requests without a valid bearer token.
func JwtMiddleware(ctx *fiber.Ctx) error {
	userId, err := userFromToken(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
	}
	ctx.Locals("user_id", userId)
	return ctx.Next()
}

// OptionalJwtMiddleware lets anonymous requests through but still rejects a bad token.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	userId, err := userFromToken(ctx)
	switch {
	case errors.Is(err, errNoToken):
		return ctx.Next()
	case err != nil:
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
	}
	ctx.Locals("user_id", userId)
	return ctx.Next()
}

// UserID returns the authenticated user, or "" for anonymous requests.
func UserID(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals("user_id").(string); ok {
		return v
	}
	return ""
}

func userFromToken(ctx *fiber.Ctx) (string, error) {
	authHeader := ctx.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errNoToken
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userId, _ := claims["user_id"].(string)
	if userId == "" {
		return "", errors.New("invalid claims")
	}
	return userId, nil
}
