// file: internals/features/school/attendance/service/attendance_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/school/attendance/model"
)

// MaxRangeDays membatasi matrix & fee series supaya query tetap ringan.
const MaxRangeDays = 93

var (
	ErrRangeReversed = errors.New("from harus <= to")
	ErrRangeTooLong  = errors.New("rentang maksimal 93 hari")
)

/* =========================
   Ports
   ========================= */

type Store interface {
	Day(ctx context.Context, day time.Time) (model.StatusMap, error)
	Range(ctx context.Context, from, to time.Time) (map[string]model.StatusMap, error)
	ReplaceDay(ctx context.Context, day time.Time, statuses model.StatusMap, actor *uuid.UUID) error
}

type StudentDirectory interface {
	IDs(ctx context.Context) ([]string, error)
	Names(ctx context.Context) (map[string]string, error)
}

type PaymentSource interface {
	CreditsBetween(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error)
}

type Service struct {
	Store    Store
	Students StudentDirectory
	Payments PaymentSource
	PerHead  int64
}

func New(store Store, students StudentDirectory, payments PaymentSource, perHead int64) *Service {
	return &Service{Store: store, Students: students, Payments: payments, PerHead: perHead}
}

/* =========================
   Views
   ========================= */

type CellView struct {
	StudentID string                  `json:"student_id"`
	Name      string                  `json:"name"`
	Status    ledger.AttendanceStatus `json:"status"`
	Glyph     string                  `json:"glyph"`
	Label     string                  `json:"label"`
	Source    ledger.Source           `json:"source"`
}

type DayView struct {
	Date      string     `json:"date"`
	Rows      []CellView `json:"rows"`
	PaidCount int64      `json:"paid_count"`
	Fee       int64      `json:"fee"`
}

type MatrixCell struct {
	Date   string                  `json:"date"`
	Status ledger.AttendanceStatus `json:"status"`
	Glyph  string                  `json:"glyph"`
	Source ledger.Source           `json:"source"`
}

type MatrixRow struct {
	StudentID string       `json:"student_id"`
	Name      string       `json:"name"`
	Cells     []MatrixCell `json:"cells"`
}

type MatrixView struct {
	From string      `json:"from"`
	To   string      `json:"to"`
	Days []string    `json:"days"`
	Rows []MatrixRow `json:"rows"`
}

type FeePointView struct {
	Date      string `json:"date"`
	PaidCount int64  `json:"paid_count"`
	Fee       int64  `json:"fee"`
}

type FeeSeriesView struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	PerHead int64          `json:"per_head"`
	Points  []FeePointView `json:"points"`
	Total   int64          `json:"total"`
}

/* =========================
   Helpers
   ========================= */

func CheckRange(from, to time.Time) ([]time.Time, error) {
	from, to = ledger.Day(from), ledger.Day(to)
	if to.Before(from) {
		return nil, ErrRangeReversed
	}
	if to.Sub(from) >= MaxRangeDays*24*time.Hour {
		return nil, ErrRangeTooLong
	}
	return ledger.DaysBetween(from, to), nil
}

// orderedSubjects: urutan daftar siswa, lalu id yatim (sorted) di belakang.
func orderedSubjects(ids []string, resolved map[string]ledger.Resolved) []string {
	out := make([]string, 0, len(resolved))
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
		out = append(out, id)
	}
	var orphans []string
	for id := range resolved {
		if _, ok := known[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return append(out, orphans...)
}

func (s *Service) paymentIndex(ctx context.Context, from, to time.Time) (ledger.PaymentIndex, error) {
	credits, err := s.Payments.CreditsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return ledger.NewPaymentIndex(credits)
}

/* =========================
   Operations
   ========================= */

// Day: status efektif semua siswa untuk satu hari.
func (s *Service) Day(ctx context.Context, day time.Time) (DayView, error) {
	day = ledger.Day(day)

	ids, err := s.Students.IDs(ctx)
	if err != nil {
		return DayView{}, err
	}
	names, err := s.Students.Names(ctx)
	if err != nil {
		return DayView{}, err
	}
	manual, err := s.Store.Day(ctx, day)
	if err != nil {
		return DayView{}, err
	}
	payments, err := s.paymentIndex(ctx, day, day)
	if err != nil {
		return DayView{}, err
	}

	resolved := ledger.ResolveDay(day, ids, manual, payments)
	view := DayView{
		Date: ledger.DayKey(day),
		Rows: make([]CellView, 0, len(resolved)),
		Fee:  ledger.DailyFee(resolved, s.PerHead),
	}
	for _, id := range orderedSubjects(ids, resolved) {
		r := resolved[id]
		if r.Status == ledger.PresentPaid {
			view.PaidCount++
		}
		view.Rows = append(view.Rows, CellView{
			StudentID: id,
			Name:      ledger.SubjectName(names, id),
			Status:    r.Status,
			Glyph:     r.Status.Glyph(),
			Label:     r.Status.Label(),
			Source:    r.Source,
		})
	}
	return view, nil
}

// SaveDay mengganti seluruh status hari itu; yang unmarked tidak disimpan.
func (s *Service) SaveDay(ctx context.Context, day time.Time, statuses map[string]ledger.AttendanceStatus, actor *uuid.UUID) (DayView, error) {
	day = ledger.Day(day)
	if err := s.Store.ReplaceDay(ctx, day, ledger.PersistableStatuses(statuses), actor); err != nil {
		return DayView{}, err
	}
	return s.Day(ctx, day)
}

// Matrix: hari × siswa untuk rentang [from, to].
func (s *Service) Matrix(ctx context.Context, from, to time.Time) (MatrixView, error) {
	days, err := CheckRange(from, to)
	if err != nil {
		return MatrixView{}, err
	}
	from, to = days[0], days[len(days)-1]

	ids, err := s.Students.IDs(ctx)
	if err != nil {
		return MatrixView{}, err
	}
	names, err := s.Students.Names(ctx)
	if err != nil {
		return MatrixView{}, err
	}
	manualByDay, err := s.Store.Range(ctx, from, to)
	if err != nil {
		return MatrixView{}, err
	}
	payments, err := s.paymentIndex(ctx, from, to)
	if err != nil {
		return MatrixView{}, err
	}

	perDay := make([]map[string]ledger.Resolved, len(days))
	all := make(map[string]ledger.Resolved)
	view := MatrixView{
		From: ledger.DayKey(from),
		To:   ledger.DayKey(to),
		Days: make([]string, 0, len(days)),
	}
	for i, d := range days {
		perDay[i] = ledger.ResolveDay(d, ids, manualByDay[ledger.DayKey(d)], payments)
		for id, r := range perDay[i] {
			all[id] = r
		}
		view.Days = append(view.Days, ledger.DayKey(d))
	}

	for _, id := range orderedSubjects(ids, all) {
		row := MatrixRow{StudentID: id, Name: ledger.SubjectName(names, id), Cells: make([]MatrixCell, 0, len(days))}
		for i, d := range days {
			r, ok := perDay[i][id]
			if !ok {
				r = ledger.Resolved{Status: ledger.Unmarked, Source: ledger.SourceNone}
			}
			row.Cells = append(row.Cells, MatrixCell{
				Date:   ledger.DayKey(d),
				Status: r.Status,
				Glyph:  r.Status.Glyph(),
				Source: r.Source,
			})
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}

// FeeSeries: pemasukan absensi per hari (jumlah hadir-bayar × tarif).
func (s *Service) FeeSeries(ctx context.Context, from, to time.Time) (FeeSeriesView, error) {
	days, err := CheckRange(from, to)
	if err != nil {
		return FeeSeriesView{}, err
	}
	from, to = days[0], days[len(days)-1]

	ids, err := s.Students.IDs(ctx)
	if err != nil {
		return FeeSeriesView{}, err
	}
	manualByDay, err := s.Store.Range(ctx, from, to)
	if err != nil {
		return FeeSeriesView{}, err
	}
	payments, err := s.paymentIndex(ctx, from, to)
	if err != nil {
		return FeeSeriesView{}, err
	}

	view := FeeSeriesView{
		From:    ledger.DayKey(from),
		To:      ledger.DayKey(to),
		PerHead: s.PerHead,
	}
	for _, p := range ledger.DailyFeeSeries(days, ids, manualByDay, payments, s.PerHead) {
		view.Points = append(view.Points, FeePointView{Date: ledger.DayKey(p.Day), PaidCount: p.PaidCount, Fee: p.Fee})
		view.Total += p.Fee
	}
	return view, nil
}
