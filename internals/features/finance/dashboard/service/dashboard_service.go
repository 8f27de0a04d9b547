// file: internals/features/finance/dashboard/service/dashboard_service.go
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"paudku_backend/internals/features/finance/ledger"
)

/* =========================
   Ports (diisi repository)
   ========================= */

type TransactionSource interface {
	All(ctx context.Context) ([]ledger.Transaction, error)
	BySubject(ctx context.Context, subjectID string) ([]ledger.Transaction, error)
}

type CheckpointSource interface {
	Current(ctx context.Context) (ledger.Checkpoint, error)
}

type StudentDirectory interface {
	Names(ctx context.Context) (map[string]string, error)
}

type Service struct {
	Transactions TransactionSource
	Checkpoints  CheckpointSource
	Students     StudentDirectory
}

func New(txs TransactionSource, cps CheckpointSource, students StudentDirectory) *Service {
	return &Service{Transactions: txs, Checkpoints: cps, Students: students}
}

/* =========================
   Views
   ========================= */

type CheckpointView struct {
	Amount int64   `json:"amount"`
	Date   *string `json:"date"`
}

type SummaryView struct {
	CashBox             int64          `json:"cash_box"`
	TotalStudentSavings int64          `json:"total_student_savings"`
	NetRevenue          int64          `json:"net_revenue"`
	Checkpoint          CheckpointView `json:"checkpoint"`
	StudentCount        int            `json:"student_count"`
	TransactionCount    int            `json:"transaction_count"`
}

type BalanceRow struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Balance   int64  `json:"balance"`
	Orphan    bool   `json:"orphan"` // siswa sudah dihapus tapi transaksinya masih ada
}

type EntryView struct {
	TransactionID string          `json:"transaction_id"`
	Date          string          `json:"date"`
	Kind          ledger.Kind     `json:"kind"`
	Category      ledger.Category `json:"category"`
	Amount        int64           `json:"amount"`
	Delta         int64           `json:"delta"`
	Balance       int64           `json:"balance"`
	SkipBalance   bool            `json:"skip_balance"`
	Note          string          `json:"note,omitempty"`
}

type LedgerView struct {
	StudentID string      `json:"student_id"`
	Name      string      `json:"name"`
	Balance   int64       `json:"balance"`
	Entries   []EntryView `json:"entries"`
}

type DayTransactionView struct {
	TransactionID string          `json:"transaction_id"`
	SubjectID     string          `json:"subject_id"`
	SubjectName   string          `json:"subject_name"`
	Kind          ledger.Kind     `json:"kind"`
	Category      ledger.Category `json:"category"`
	Amount        int64           `json:"amount"`
	SkipBalance   bool            `json:"skip_balance"`
	Note          string          `json:"note,omitempty"`
}

type DayView struct {
	Date         string               `json:"date"`
	Transactions []DayTransactionView `json:"transactions"`
	Summary      SummaryView          `json:"summary"`
}

/* =========================
   Operations
   ========================= */

func (s *Service) load(ctx context.Context) ([]ledger.Transaction, ledger.Checkpoint, map[string]string, error) {
	txs, err := s.Transactions.All(ctx)
	if err != nil {
		return nil, ledger.Checkpoint{}, nil, err
	}
	cp, err := s.Checkpoints.Current(ctx)
	if err != nil {
		return nil, ledger.Checkpoint{}, nil, err
	}
	names, err := s.Students.Names(ctx)
	if err != nil {
		return nil, ledger.Checkpoint{}, nil, err
	}
	return txs, cp, names, nil
}

func summarize(cp ledger.Checkpoint, txs []ledger.Transaction, studentCount int) (SummaryView, error) {
	sum, err := ledger.Summarize(cp, txs)
	if err != nil {
		return SummaryView{}, err
	}
	view := SummaryView{
		CashBox:             sum.CashBox,
		TotalStudentSavings: sum.TotalStudentSavings,
		NetRevenue:          sum.NetRevenue,
		Checkpoint:          CheckpointView{Amount: cp.Amount},
		StudentCount:        studentCount,
		TransactionCount:    len(txs),
	}
	if !cp.Date.IsZero() {
		d := ledger.DayKey(cp.Date)
		view.Checkpoint.Date = &d
	}
	return view, nil
}

// Summary: brankas, total tabungan siswa, dan pendapatan bersih.
func (s *Service) Summary(ctx context.Context) (SummaryView, error) {
	txs, cp, names, err := s.load(ctx)
	if err != nil {
		return SummaryView{}, err
	}
	return summarize(cp, txs, len(names))
}

// Balances: semua siswa (saldo 0 ikut) + subject yatim bernama "Unknown".
func (s *Service) Balances(ctx context.Context) ([]BalanceRow, error) {
	txs, err := s.Transactions.All(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.Students.Names(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := ledger.StudentBalances(txs)
	if err != nil {
		return nil, err
	}

	rows := make([]BalanceRow, 0, len(names)+len(balances))
	for id := range names {
		rows = append(rows, BalanceRow{StudentID: id, Name: ledger.SubjectName(names, id), Balance: balances[id]})
	}
	for id, bal := range balances {
		if _, ok := names[id]; ok {
			continue
		}
		rows = append(rows, BalanceRow{StudentID: id, Name: ledger.SubjectName(names, id), Balance: bal, Orphan: true})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Orphan != rows[j].Orphan {
			return !rows[i].Orphan
		}
		ni, nj := strings.ToLower(rows[i].Name), strings.ToLower(rows[j].Name)
		if ni != nj {
			return ni < nj
		}
		return rows[i].StudentID < rows[j].StudentID
	})
	return rows, nil
}

// StudentLedger: riwayat saldo berjalan satu siswa.
func (s *Service) StudentLedger(ctx context.Context, studentID string) (LedgerView, error) {
	txs, err := s.Transactions.BySubject(ctx, studentID)
	if err != nil {
		return LedgerView{}, err
	}
	names, err := s.Students.Names(ctx)
	if err != nil {
		return LedgerView{}, err
	}
	entries, err := ledger.History(txs, studentID)
	if err != nil {
		return LedgerView{}, err
	}

	view := LedgerView{
		StudentID: studentID,
		Name:      ledger.SubjectName(names, studentID),
		Entries:   make([]EntryView, 0, len(entries)),
	}
	for _, e := range entries {
		view.Entries = append(view.Entries, EntryView{
			TransactionID: e.Transaction.ID,
			Date:          ledger.DayKey(e.Transaction.Date),
			Kind:          e.Transaction.Kind,
			Category:      e.Transaction.Category,
			Amount:        e.Transaction.Amount,
			Delta:         e.Delta,
			Balance:       e.Balance,
			SkipBalance:   e.Transaction.SkipBalance,
			Note:          e.Transaction.Note,
		})
		view.Balance = e.Balance
	}
	return view, nil
}

// Day: daftar transaksi satu hari + ringkasan global (dipakai live stream).
func (s *Service) Day(ctx context.Context, day time.Time) (DayView, error) {
	txs, cp, names, err := s.load(ctx)
	if err != nil {
		return DayView{}, err
	}
	summary, err := summarize(cp, txs, len(names))
	if err != nil {
		return DayView{}, err
	}

	day = ledger.Day(day)
	var todays []ledger.Transaction
	for _, t := range txs {
		if ledger.Day(t.Date).Equal(day) {
			todays = append(todays, t)
		}
	}
	todays = ledger.SortChronological(todays)

	view := DayView{
		Date:         ledger.DayKey(day),
		Transactions: make([]DayTransactionView, 0, len(todays)),
		Summary:      summary,
	}
	for _, t := range todays {
		view.Transactions = append(view.Transactions, DayTransactionView{
			TransactionID: t.ID,
			SubjectID:     t.SubjectID,
			SubjectName:   ledger.SubjectName(names, t.SubjectID),
			Kind:          t.Kind,
			Category:      t.Category,
			Amount:        t.Amount,
			SkipBalance:   t.SkipBalance,
			Note:          t.Note,
		})
	}
	return view, nil
}
