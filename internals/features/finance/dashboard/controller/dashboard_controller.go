// file: internals/features/finance/dashboard/controller/dashboard_controller.go
package controller

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"paudku_backend/internals/features/finance/dashboard/repository"
	"paudku_backend/internals/features/finance/dashboard/scheduler"
	"paudku_backend/internals/features/finance/dashboard/service"
	"paudku_backend/internals/features/finance/ledger"
	helper "paudku_backend/internals/helpers"
	"paudku_backend/internals/realtime"
)

type DashboardController struct {
	Service     *service.Service
	Snapshots   repository.SnapshotRepository
	Snapshotter *scheduler.Snapshotter
	Hub         *realtime.Hub
	Location    *time.Location
}

func NewDashboardController(svc *service.Service, snaps repository.SnapshotRepository, hub *realtime.Hub, loc *time.Location) *DashboardController {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardController{
		Service:     svc,
		Snapshots:   snaps,
		Snapshotter: scheduler.NewSnapshotter(svc, snaps, loc),
		Hub:         hub,
		Location:    loc,
	}
}

// derivationError: data transaksi yang tidak bisa dijumlahkan → 422, selain itu error store.
func derivationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrAmountOverflow):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Total transaksi melewati batas perhitungan")
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidKind),
		errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, ledger.ErrEmptySubject):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return helper.StoreError(c, err)
}

func (ctl *DashboardController) today() time.Time {
	return ledger.Day(time.Now().In(ctl.Location))
}

// GET /dashboard/summary
func (ctl *DashboardController) Summary(c *fiber.Ctx) error {
	sum, err := ctl.Service.Summary(c.UserContext())
	if err != nil {
		return derivationError(c, err)
	}
	return helper.JsonOK(c, "Ringkasan keuangan", sum)
}

// GET /dashboard/balances
func (ctl *DashboardController) Balances(c *fiber.Ctx) error {
	rows, err := ctl.Service.Balances(c.UserContext())
	if err != nil {
		return derivationError(c, err)
	}
	return helper.JsonList(c, "Saldo tabungan siswa", rows, nil)
}

// GET /students/:id/ledger
func (ctl *DashboardController) StudentLedger(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	view, err := ctl.Service.StudentLedger(c.UserContext(), id.String())
	if err != nil {
		return derivationError(c, err)
	}
	return helper.JsonOK(c, "Riwayat tabungan", view)
}

// GET /dashboard/cashbox-history?days=30
func (ctl *DashboardController) CashboxHistory(c *fiber.Ctx) error {
	days := 30
	if s := strings.TrimSpace(c.Query("days")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 366 {
			return helper.FieldError(c, "days", "harus 1 sampai 366")
		}
		days = n
	}
	from := ctl.today().AddDate(0, 0, -(days - 1))
	rows, err := ctl.Snapshots.Since(c.UserContext(), from)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonList(c, "Riwayat brankas", rows, nil)
}

// POST /dashboard/cashbox-snapshots (jalankan snapshot sekarang)
func (ctl *DashboardController) RunSnapshot(c *fiber.Ctx) error {
	snap, err := ctl.Snapshotter.Run(c.UserContext())
	if err != nil {
		return derivationError(c, err)
	}
	return helper.JsonCreated(c, "Snapshot brankas disimpan", snap)
}

// GET /live/transactions?date=YYYY-MM-DD (SSE)
func (ctl *DashboardController) LiveTransactions(c *fiber.Ctx) error {
	day := ctl.today()
	if s := strings.TrimSpace(c.Query("date")); s != "" {
		d, err := ledger.ParseDay(s)
		if err != nil {
			return helper.FieldError(c, "date", "format tanggal YYYY-MM-DD")
		}
		day = d
	}

	// ringkasan bergantung pada semua transaksi & checkpoint, bukan hanya hari ini
	filter := realtime.ForCollections(
		realtime.CollectionTransactions,
		realtime.CollectionCheckpoint,
		realtime.CollectionStudents,
	)
	return realtime.Stream(c, ctl.Hub, filter, func(ctx context.Context) (any, error) {
		return ctl.Service.Day(ctx, day)
	})
}
