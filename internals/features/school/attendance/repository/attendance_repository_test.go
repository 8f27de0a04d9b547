package repository

import (
	"context"
	"testing"
	"time"

	"paudku_backend/internals/databases/testdb"
	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/school/attendance/model"
	"paudku_backend/internals/realtime"
)

func day(s string) time.Time {
	t, _ := ledger.ParseDay(s)
	return t
}

func TestReplaceDay_UpsertThenDelete(t *testing.T) {
	db := testdb.Open(t)
	rec := &realtime.Recorder{}
	repo := NewAttendanceRepository(db, rec)
	ctx := context.Background()
	d := day("2024-03-04")

	got, err := repo.Day(ctx, d)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("missing day = %v, want empty non-nil map", got)
	}

	if err := repo.ReplaceDay(ctx, d, model.StatusMap{"s1": ledger.Sick, "s2": ledger.Absent}, nil); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceDay(ctx, d, model.StatusMap{"s2": ledger.PresentPaid}, nil); err != nil {
		t.Fatal(err)
	}
	got, err = repo.Day(ctx, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["s2"] != ledger.PresentPaid {
		t.Errorf("after second save = %v, want only s2=present_paid", got)
	}

	var n int64
	db.Model(&model.AttendanceDayModel{}).Count(&n)
	if n != 1 {
		t.Errorf("rows = %d, want a single row per day", n)
	}

	if err := repo.ReplaceDay(ctx, d, model.StatusMap{}, nil); err != nil {
		t.Fatal(err)
	}
	db.Model(&model.AttendanceDayModel{}).Count(&n)
	if n != 0 {
		t.Errorf("rows after empty save = %d, want 0", n)
	}

	changes := rec.Changes()
	if len(changes) != 3 {
		t.Fatalf("changes = %+v", changes)
	}
	for _, c := range changes {
		if c.Collection != realtime.CollectionAttendance || c.Day != "2024-03-04" {
			t.Errorf("change = %+v", c)
		}
	}
}

func TestRange_KeyedByDay(t *testing.T) {
	db := testdb.Open(t)
	repo := NewAttendanceRepository(db, nil)
	ctx := context.Background()

	for _, s := range []string{"2024-03-01", "2024-03-03", "2024-04-01"} {
		if err := repo.ReplaceDay(ctx, day(s), model.StatusMap{"s1": ledger.Excused}, nil); err != nil {
			t.Fatal(err)
		}
	}
	got, err := repo.Range(ctx, day("2024-03-01"), day("2024-03-31"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got["2024-03-03"]["s1"] != ledger.Excused {
		t.Errorf("range = %v", got)
	}
}
