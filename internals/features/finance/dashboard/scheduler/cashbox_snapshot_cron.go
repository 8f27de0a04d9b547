// file: internals/features/finance/dashboard/scheduler/cashbox_snapshot_cron.go
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"paudku_backend/internals/features/finance/dashboard/model"
	"paudku_backend/internals/features/finance/dashboard/repository"
	"paudku_backend/internals/features/finance/dashboard/service"
	"paudku_backend/internals/features/finance/ledger"
)

type Snapshotter struct {
	Service  *service.Service
	Repo     repository.SnapshotRepository
	Location *time.Location
	Now      func() time.Time
}

func NewSnapshotter(svc *service.Service, repo repository.SnapshotRepository, loc *time.Location) *Snapshotter {
	if loc == nil {
		loc = time.UTC
	}
	return &Snapshotter{Service: svc, Repo: repo, Location: loc, Now: time.Now}
}

// Run menyimpan ringkasan brankas untuk hari ini (zona waktu sekolah).
func (s *Snapshotter) Run(ctx context.Context) (*model.CashboxSnapshotModel, error) {
	sum, err := s.Service.Summary(ctx)
	if err != nil {
		return nil, err
	}
	snap := &model.CashboxSnapshotModel{
		SnapshotDate:                ledger.Day(s.Now().In(s.Location)),
		SnapshotCashBox:             sum.CashBox,
		SnapshotTotalStudentSavings: sum.TotalStudentSavings,
		SnapshotNetRevenue:          sum.NetRevenue,
	}
	if err := s.Repo.Upsert(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ── ENTRYPOINT: panggil dari main.go, Stop() saat shutdown
func StartCashboxSnapshotCron(s *Snapshotter, spec string) (*cron.Cron, error) {
	log := zap.L().Named("cashbox-snapshot")

	c := cron.New(
		cron.WithLocation(s.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		snap, err := s.Run(ctx)
		if err != nil {
			log.Error("snapshot gagal", zap.Error(err))
			return
		}
		log.Info("snapshot tersimpan",
			zap.String("date", ledger.DayKey(snap.SnapshotDate)),
			zap.Int64("cash_box", snap.SnapshotCashBox),
			zap.Int64("total_student_savings", snap.SnapshotTotalStudentSavings),
		)
	})
	if err != nil {
		return nil, err
	}
	log.Info("started", zap.String("schedule", spec), zap.String("tz", s.Location.String()))
	c.Start()
	return c, nil
}
