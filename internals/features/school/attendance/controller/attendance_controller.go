// file: internals/features/school/attendance/controller/attendance_controller.go
package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/school/attendance/dto"
	"paudku_backend/internals/features/school/attendance/service"
	helper "paudku_backend/internals/helpers"
	helperAuth "paudku_backend/internals/helpers/auth"
	"paudku_backend/internals/realtime"
)

type AttendanceController struct {
	Service   *service.Service
	Hub       *realtime.Hub
	Location  *time.Location
	Validator *validator.Validate
}

func NewAttendanceController(svc *service.Service, hub *realtime.Hub, loc *time.Location) *AttendanceController {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceController{Service: svc, Hub: hub, Location: loc, Validator: validator.New()}
}

/* =========================
   Param parsing
   ========================= */

func parseDateParam(c *fiber.Ctx) (time.Time, error) {
	d, err := ledger.ParseDay(c.Params("date"))
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "date harus YYYY-MM-DD")
	}
	return d, nil
}

// parseRange: default awal bulan berjalan s/d hari ini.
func (ctl *AttendanceController) parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	today := ledger.Day(time.Now().In(ctl.Location))
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := today

	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := ledger.ParseDay(s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "from harus YYYY-MM-DD")
		}
		from = d
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, err := ledger.ParseDay(s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "to harus YYYY-MM-DD")
		}
		to = d
	}
	if _, err := service.CheckRange(from, to); err != nil {
		return from, to, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return from, to, nil
}

func rangeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrRangeReversed) || errors.Is(err, service.ErrRangeTooLong) {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.StoreError(c, err)
}

/* =========================
   Handlers
   ========================= */

// GET /attendance/:date
func (ctl *AttendanceController) GetDay(c *fiber.Ctx) error {
	day, err := parseDateParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	view, err := ctl.Service.Day(c.UserContext(), day)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonOK(c, "Absensi harian", view)
}

// PUT /attendance/:date (ganti seluruh isi hari)
func (ctl *AttendanceController) PutDay(c *fiber.Ctx) error {
	day, err := parseDateParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SaveAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	statuses, fieldErrs := req.Parse()
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	view, err := ctl.Service.SaveDay(c.UserContext(), day, statuses, helperAuth.ActorID(c))
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonUpdated(c, "Absensi disimpan", view)
}

// GET /attendance?from&to
func (ctl *AttendanceController) Matrix(c *fiber.Ctx) error {
	from, to, err := ctl.parseRange(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	view, err := ctl.Service.Matrix(c.UserContext(), from, to)
	if err != nil {
		return rangeError(c, err)
	}
	return helper.JsonOK(c, "Rekap absensi", view)
}

// GET /attendance/fees?from&to
func (ctl *AttendanceController) Fees(c *fiber.Ctx) error {
	from, to, err := ctl.parseRange(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	view, err := ctl.Service.FeeSeries(c.UserContext(), from, to)
	if err != nil {
		return rangeError(c, err)
	}
	return helper.JsonOK(c, "Pemasukan absensi harian", view)
}

// GET /live/attendance?from&to (SSE, kirim ulang matrix setiap ada perubahan)
func (ctl *AttendanceController) LiveMatrix(c *fiber.Ctx) error {
	from, to, err := ctl.parseRange(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	filter := realtime.ForDayRange(ledger.DayKey(from), ledger.DayKey(to),
		realtime.CollectionAttendance,
		realtime.CollectionTransactions,
		realtime.CollectionStudents,
	)
	return realtime.Stream(c, ctl.Hub, filter, func(ctx context.Context) (any, error) {
		return ctl.Service.Matrix(ctx, from, to)
	})
}
