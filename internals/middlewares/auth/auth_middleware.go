// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"paudku_backend/internals/configs"
	helper "paudku_backend/internals/helpers"
	helperAuth "paudku_backend/internals/helpers/auth"
)

// RoleResolver: role dibaca dari database (bukan dari klaim token).
type RoleResolver interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)
}

type Options struct {
	Secret string
	Roles  RoleResolver
	// Leeway untuk exp (jam server tidak selalu sinkron)
	Leeway time.Duration
}

func AuthMiddleware(opt Options) fiber.Handler {
	if opt.Leeway == 0 {
		opt.Leeway = 30 * time.Second
	}
	log := zap.L().Named("auth")

	return func(c *fiber.Ctx) error {
		// 1) Ambil Authorization (atau cookie)
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		// 2) Parse & verifikasi JWT (HS256 saja)
		secretKey := opt.Secret
		if secretKey == "" {
			secretKey = configs.JWTSecret
		}
		if secretKey == "" {
			log.Error("JWT_SECRET kosong")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{
			SkipClaimsValidation: true,
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Debug("token parse error", zap.Error(err))
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 3) Validasi exp
		if err := validateTokenExpiry(claims, opt.Leeway); err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 4) Ambil user_id
		userID, err := extractUserID(claims)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		c.Locals(helperAuth.LocUserID, userID.String())
		if userName, ok := claims["user_name"].(string); ok {
			c.Locals(helperAuth.LocUserName, strings.TrimSpace(userName))
		}

		// 5) Role dari tabel user_roles (tidak ada → guest)
		role, err := opt.Roles.RoleOf(c.UserContext(), userID)
		if err != nil {
			log.Error("role lookup failed", zap.String("user_id", userID.String()), zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membaca role pengguna")
		}
		c.Locals(helperAuth.LocRole, role)

		return c.Next()
	}
}
