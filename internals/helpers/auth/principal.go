// file: internals/helpers/auth/principal.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"paudku_backend/internals/constants"
)

// Key Locals yang diisi AuthMiddleware
const (
	LocUserID   = "user_id"
	LocUserName = "user_name"
	LocRole     = "userRole"
)

// GetUserIDFromToken membaca user_id yang sudah diverifikasi middleware.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user_id tidak ada di token")
	}
	return id, nil
}

// ActorID: versi pointer untuk kolom created_by / updated_by (nil kalau tidak ada).
func ActorID(c *fiber.Ctx) *uuid.UUID {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

func GetUserName(c *fiber.Ctx) string {
	s, _ := c.Locals(LocUserName).(string)
	return strings.TrimSpace(s)
}

// GetRole: role hasil lookup; kosong → guest.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocRole).(string)
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return constants.RoleGuest
	}
	return s
}
