package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"paudku_backend/internals/features/finance/ledger"
)

type memTxs []ledger.Transaction

func (m memTxs) All(context.Context) ([]ledger.Transaction, error) { return m, nil }
func (m memTxs) BySubject(_ context.Context, id string) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	for _, t := range m {
		if t.SubjectID == id {
			out = append(out, t)
		}
	}
	return out, nil
}

type fixedCheckpoint ledger.Checkpoint

func (f fixedCheckpoint) Current(context.Context) (ledger.Checkpoint, error) {
	return ledger.Checkpoint(f), nil
}

type fixedNames map[string]string

func (f fixedNames) Names(context.Context) (map[string]string, error) { return f, nil }

func d(s string) time.Time {
	t, _ := time.Parse(ledger.DayLayout, s)
	return t
}

func tx(id, subject string, amount int64, kind ledger.Kind, date string) ledger.Transaction {
	return ledger.Transaction{
		ID: id, SubjectID: subject, Amount: amount, Kind: kind, Date: d(date),
		Category: ledger.CategoryOrdinary, CreatedAt: d(date),
	}
}

func TestSummary_CashBoxAndNetRevenue(t *testing.T) {
	txs := memTxs{
		tx("a", "s1", 50000, ledger.KindCredit, "2024-01-09"),
		tx("b", "s1", 20000, ledger.KindCredit, "2024-01-11"),
		tx("c", "s1", 5000, ledger.KindDebit, "2024-01-12"),
	}
	svc := New(txs, fixedCheckpoint{Amount: 100000, Date: d("2024-01-10")}, fixedNames{"s1": "Aisyah"})

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.CashBox != 115000 {
		t.Errorf("cash box = %d, want 115000", sum.CashBox)
	}
	if sum.TotalStudentSavings != 65000 {
		t.Errorf("savings = %d, want 65000", sum.TotalStudentSavings)
	}
	if sum.NetRevenue != 50000 {
		t.Errorf("net revenue = %d, want 50000", sum.NetRevenue)
	}
	if sum.Checkpoint.Date == nil || *sum.Checkpoint.Date != "2024-01-10" {
		t.Errorf("checkpoint date = %v", sum.Checkpoint.Date)
	}
	if sum.StudentCount != 1 || sum.TransactionCount != 3 {
		t.Errorf("counts = %d/%d", sum.StudentCount, sum.TransactionCount)
	}
}

func TestSummary_NoCheckpointCountsEverything(t *testing.T) {
	txs := memTxs{
		tx("a", ledger.NonStudent, 30000, ledger.KindCredit, "2024-01-01"),
		tx("b", "s1", 10000, ledger.KindCredit, "2024-01-02"),
	}
	sum, err := New(txs, fixedCheckpoint{}, fixedNames{}).Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.CashBox != 40000 || sum.TotalStudentSavings != 10000 || sum.Checkpoint.Date != nil {
		t.Errorf("summary = %+v", sum)
	}
}

func TestSummary_MalformedTransactionIsAnError(t *testing.T) {
	txs := memTxs{tx("bad", "s1", 0, ledger.KindCredit, "2024-01-01")}
	_, err := New(txs, fixedCheckpoint{}, fixedNames{}).Summary(context.Background())
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestBalances_OrphansLastAsUnknown(t *testing.T) {
	txs := memTxs{
		tx("a", "s2", 7000, ledger.KindCredit, "2024-01-01"),
		tx("b", "gone", 3000, ledger.KindCredit, "2024-01-01"),
		tx("c", ledger.NonStudent, 9000, ledger.KindCredit, "2024-01-01"),
	}
	rows, err := New(txs, fixedCheckpoint{}, fixedNames{"s1": "Zahra", "s2": "Bima"}).Balances(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %+v, want 3 (sentinel excluded)", rows)
	}
	if rows[0].Name != "Bima" || rows[0].Balance != 7000 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].Name != "Zahra" || rows[1].Balance != 0 {
		t.Errorf("rows[1] = %+v, students without transactions show 0", rows[1])
	}
	if !rows[2].Orphan || rows[2].Name != ledger.UnknownSubjectName || rows[2].Balance != 3000 {
		t.Errorf("rows[2] = %+v, want orphan Unknown", rows[2])
	}
}

func TestStudentLedger_RunningBalanceWithSkipBalance(t *testing.T) {
	early := tx("x2", "s1", 10000, ledger.KindCredit, "2024-02-01")
	late := tx("x1", "s1", 4000, ledger.KindDebit, "2024-02-01")
	late.CreatedAt = early.CreatedAt.Add(time.Minute)
	cash := tx("x3", "s1", 15000, ledger.KindCredit, "2024-02-02")
	cash.SkipBalance = true
	cash.Category = ledger.CategoryEvent

	view, err := New(memTxs{cash, late, early}, fixedCheckpoint{}, fixedNames{"s1": "Aisyah"}).
		StudentLedger(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		id      string
		delta   int64
		balance int64
	}{
		{"x2", 10000, 10000},
		{"x1", -4000, 6000},
		{"x3", 0, 6000},
	}
	if len(view.Entries) != len(want) {
		t.Fatalf("entries = %+v", view.Entries)
	}
	for i, w := range want {
		e := view.Entries[i]
		if e.TransactionID != w.id || e.Delta != w.delta || e.Balance != w.balance {
			t.Errorf("entry %d = %+v, want %+v", i, e, w)
		}
	}
	if view.Balance != 6000 || view.Name != "Aisyah" {
		t.Errorf("view = %s/%d", view.Name, view.Balance)
	}
}

func TestDay_FiltersToOneDay(t *testing.T) {
	txs := memTxs{
		tx("a", "s1", 1000, ledger.KindCredit, "2024-03-01"),
		tx("b", ledger.NonStudent, 2000, ledger.KindDebit, "2024-03-02"),
	}
	view, err := New(txs, fixedCheckpoint{}, fixedNames{"s1": "Aisyah"}).Day(context.Background(), d("2024-03-02"))
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Transactions) != 1 || view.Transactions[0].SubjectName != ledger.NonStudentSubjectName {
		t.Errorf("transactions = %+v", view.Transactions)
	}
	if view.Summary.CashBox != -1000 {
		t.Errorf("cash box = %d, want -1000", view.Summary.CashBox)
	}
}
