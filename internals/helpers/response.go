package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ✅ Khusus error validasi (validator.v10) → 422 dengan map field → pesan
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		fields[name] = append(fields[name], validationMessage(fe))
	}
	return JsonValidationError(c, fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "gt", "min":
		return fmt.Sprintf("minimal %s", fe.Param())
	case "max":
		return fmt.Sprintf("maksimal %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("harus salah satu dari: %s", fe.Param())
	case "datetime":
		return "format tanggal YYYY-MM-DD"
	case "uuid", "uuid4":
		return "harus UUID"
	default:
		return fe.Tag()
	}
}

// FieldError: satu field invalid (dipakai untuk validasi manual di controller)
func FieldError(c *fiber.Ctx, field, message string) error {
	return JsonValidationError(c, map[string][]string{field: {message}})
}

// IsUniqueViolation: SQLSTATE 23505 dari Postgres
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// StoreError memetakan error dari record store ke response. Tidak ada retry.
func StoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonError(c, fiber.StatusNotFound, "Data tidak ditemukan")
	case IsUniqueViolation(err):
		return JsonError(c, fiber.StatusConflict, "Data sudah ada")
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	zap.L().Error("store operation failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}

// ParseUUIDParam membaca :name sebagai UUID.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" invalid")
	}
	return id, nil
}
