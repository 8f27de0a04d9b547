package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/school/attendance/model"
)

/* ========== fakes ========== */

type memStore struct {
	days map[string]model.StatusMap
}

func newMemStore() *memStore { return &memStore{days: map[string]model.StatusMap{}} }

func (m *memStore) Day(_ context.Context, day time.Time) (model.StatusMap, error) {
	if s, ok := m.days[ledger.DayKey(day)]; ok {
		return s, nil
	}
	return model.StatusMap{}, nil
}

func (m *memStore) Range(_ context.Context, from, to time.Time) (map[string]model.StatusMap, error) {
	out := map[string]model.StatusMap{}
	for _, d := range ledger.DaysBetween(from, to) {
		if s, ok := m.days[ledger.DayKey(d)]; ok {
			out[ledger.DayKey(d)] = s
		}
	}
	return out, nil
}

func (m *memStore) ReplaceDay(_ context.Context, day time.Time, statuses model.StatusMap, _ *uuid.UUID) error {
	if len(statuses) == 0 {
		delete(m.days, ledger.DayKey(day))
		return nil
	}
	m.days[ledger.DayKey(day)] = statuses
	return nil
}

type fixedStudents struct {
	ids   []string
	names map[string]string
}

func (f fixedStudents) IDs(context.Context) ([]string, error) { return f.ids, nil }
func (f fixedStudents) Names(context.Context) (map[string]string, error) {
	return f.names, nil
}

type fixedCredits []ledger.Transaction

func (f fixedCredits) CreditsBetween(_ context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	for _, tx := range f {
		if tx.Kind == ledger.KindCredit && !tx.Date.Before(from) && !tx.Date.After(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ledger.ParseDay(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newService(t *testing.T, credits fixedCredits) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	students := fixedStudents{
		ids:   []string{"s1", "s2", "s3"},
		names: map[string]string{"s1": "Aisyah", "s2": "Bima", "s3": "Citra"},
	}
	return New(store, students, credits, 5000), store
}

func rowFor(t *testing.T, v DayView, id string) CellView {
	t.Helper()
	for _, r := range v.Rows {
		if r.StudentID == id {
			return r
		}
	}
	t.Fatalf("row %s not found in %+v", id, v.Rows)
	return CellView{}
}

/* ========== tests ========== */

func TestSaveDay_AllUnmarkedPersistsNothing(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	d := day(t, "2024-03-04")

	if _, err := svc.SaveDay(ctx, d, map[string]ledger.AttendanceStatus{"s1": ledger.Absent}, nil); err != nil {
		t.Fatal(err)
	}
	v, err := svc.SaveDay(ctx, d, map[string]ledger.AttendanceStatus{
		"s1": ledger.Unmarked, "s2": ledger.Unmarked, "s3": ledger.Unmarked,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.days["2024-03-04"]; ok {
		t.Errorf("expected the day to be removed, got %v", store.days["2024-03-04"])
	}
	for _, r := range v.Rows {
		if r.Status != ledger.Unmarked || r.Source != ledger.SourceNone {
			t.Errorf("%s = %v/%s, want unmarked/none", r.StudentID, r.Status, r.Source)
		}
	}
}

func TestSaveDay_ReplacesWholeDay(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	d := day(t, "2024-03-04")

	if _, err := svc.SaveDay(ctx, d, map[string]ledger.AttendanceStatus{"s1": ledger.Sick, "s2": ledger.Absent}, nil); err != nil {
		t.Fatal(err)
	}
	v, err := svc.SaveDay(ctx, d, map[string]ledger.AttendanceStatus{"s2": ledger.Excused}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.days["2024-03-04"]; len(got) != 1 || got["s2"] != ledger.Excused {
		t.Errorf("stored = %v, want only s2=excused", got)
	}
	if r := rowFor(t, v, "s1"); r.Status != ledger.Unmarked {
		t.Errorf("s1 = %v, want unmarked after replace", r.Status)
	}
}

func TestDay_PaymentImpliesPresentPaidButManualWins(t *testing.T) {
	d := day(t, "2024-03-05")
	credits := fixedCredits{
		{ID: "t1", SubjectID: "s1", Amount: 5000, Kind: ledger.KindCredit, Date: d, Category: ledger.CategoryOrdinary},
		{ID: "t2", SubjectID: "s2", Amount: 5000, Kind: ledger.KindCredit, Date: d, Category: ledger.CategoryOrdinary},
		{ID: "t3", SubjectID: ledger.NonStudent, Amount: 9000, Kind: ledger.KindCredit, Date: d, Category: ledger.CategoryOrdinary},
	}
	svc, store := newService(t, credits)
	store.days["2024-03-05"] = model.StatusMap{"s2": ledger.Absent}

	v, err := svc.Day(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if r := rowFor(t, v, "s1"); r.Status != ledger.PresentPaid || r.Source != ledger.SourcePayment {
		t.Errorf("s1 = %v/%s, want present_paid/payment", r.Status, r.Source)
	}
	if r := rowFor(t, v, "s2"); r.Status != ledger.Absent || r.Source != ledger.SourceManual {
		t.Errorf("s2 = %v/%s, want absent/manual", r.Status, r.Source)
	}
	if v.PaidCount != 1 || v.Fee != 5000 {
		t.Errorf("paid=%d fee=%d, want 1 and 5000", v.PaidCount, v.Fee)
	}
	if len(v.Rows) != 3 {
		t.Errorf("rows = %d, non-student sentinel must not appear", len(v.Rows))
	}
}

func TestDay_OrphanManualEntryIsListedLastAsUnknown(t *testing.T) {
	svc, store := newService(t, nil)
	store.days["2024-03-06"] = model.StatusMap{"gone": ledger.Sick}

	v, err := svc.Day(context.Background(), day(t, "2024-03-06"))
	if err != nil {
		t.Fatal(err)
	}
	last := v.Rows[len(v.Rows)-1]
	if last.StudentID != "gone" || last.Name != ledger.UnknownSubjectName {
		t.Errorf("last row = %+v, want orphan named Unknown", last)
	}
}

func TestMatrixAndFeeSeries(t *testing.T) {
	d1, d2 := day(t, "2024-03-04"), day(t, "2024-03-05")
	credits := fixedCredits{
		{ID: "t1", SubjectID: "s1", Amount: 5000, Kind: ledger.KindCredit, Date: d1, Category: ledger.CategoryOrdinary},
		{ID: "t2", SubjectID: "s3", Amount: 5000, Kind: ledger.KindCredit, Date: d2, Category: ledger.CategoryOrdinary},
	}
	svc, store := newService(t, credits)
	store.days["2024-03-04"] = model.StatusMap{"s2": ledger.PresentPaid}
	ctx := context.Background()

	m, err := svc.Matrix(ctx, d1, d2)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Days) != 2 || len(m.Rows) != 3 {
		t.Fatalf("matrix %d days × %d rows, want 2 × 3", len(m.Days), len(m.Rows))
	}
	if c := m.Rows[0].Cells[0]; c.Status != ledger.PresentPaid || c.Source != ledger.SourcePayment {
		t.Errorf("s1@d1 = %+v", c)
	}
	if c := m.Rows[0].Cells[1]; c.Status != ledger.Unmarked {
		t.Errorf("s1@d2 = %+v, want unmarked", c)
	}

	fees, err := svc.FeeSeries(ctx, d1, d2)
	if err != nil {
		t.Fatal(err)
	}
	if len(fees.Points) != 2 || fees.Points[0].Fee != 10000 || fees.Points[1].Fee != 5000 || fees.Total != 15000 {
		t.Errorf("fee series = %+v", fees)
	}
}

func TestCheckRange(t *testing.T) {
	from := day(t, "2024-01-01")
	cases := []struct {
		name string
		to   time.Time
		want error
		days int
	}{
		{"single day", from, nil, 1},
		{"reversed", from.AddDate(0, 0, -1), ErrRangeReversed, 0},
		{"max", from.AddDate(0, 0, MaxRangeDays-1), nil, MaxRangeDays},
		{"too long", from.AddDate(0, 0, MaxRangeDays), ErrRangeTooLong, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := CheckRange(from, tc.to)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if len(days) != tc.days {
				t.Errorf("days = %d, want %d", len(days), tc.days)
			}
		})
	}
}
