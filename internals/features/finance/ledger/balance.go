// file: internals/features/finance/ledger/balance.go
package ledger

import (
	"sort"
	"time"
)

// Balance = Σcredit − Σdebit untuk satu subject (atau semua siswa kalau
// subjectID kosong). Transaksi skip_balance dan sentinel non-siswa tidak ikut.
func Balance(txs []Transaction, subjectID string) (int64, error) {
	var total int64
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return 0, err
		}
		if !countsForStudent(tx) {
			continue
		}
		if subjectID != "" && tx.SubjectID != subjectID {
			continue
		}
		next, err := addAmount(total, tx.Signed())
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

func countsForStudent(tx Transaction) bool {
	return !tx.SkipBalance && !tx.IsNonStudent()
}

// StudentBalances: saldo tabungan per siswa. Siswa yang sudah dihapus tetap
// muncul dengan id-nya (orphan), tidak dianggap error.
func StudentBalances(txs []Transaction) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		if !countsForStudent(tx) {
			continue
		}
		next, err := addAmount(out[tx.SubjectID], tx.Signed())
		if err != nil {
			return nil, err
		}
		out[tx.SubjectID] = next
	}
	return out, nil
}

// TotalStudentSavings = jumlah seluruh saldo siswa (tanpa non-siswa).
func TotalStudentSavings(txs []Transaction) (int64, error) {
	return Balance(txs, "")
}

/* =========================
   Running balance history
   ========================= */

type Entry struct {
	Transaction Transaction
	Delta       int64 // 0 untuk transaksi skip_balance
	Balance     int64
}

// SortChronological: tanggal naik, lalu urutan pembuatan naik. ID sebagai
// pemutus terakhir supaya hasil stabil walau created_at kembar.
func SortChronological(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if da, db := Day(a.Date), Day(b.Date); !da.Equal(db) {
			return da.Before(db)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// History menghasilkan saldo berjalan untuk satu siswa.
func History(txs []Transaction, subjectID string) ([]Entry, error) {
	own := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		if tx.SubjectID == subjectID {
			own = append(own, tx)
		}
	}

	sorted := SortChronological(own)
	entries := make([]Entry, 0, len(sorted))
	var running int64
	for _, tx := range sorted {
		var delta int64
		if countsForStudent(tx) {
			delta = tx.Signed()
		}
		next, err := addAmount(running, delta)
		if err != nil {
			return nil, err
		}
		running = next
		entries = append(entries, Entry{Transaction: tx, Delta: delta, Balance: running})
	}
	return entries, nil
}

/* =========================
   Cash box (brankas)
   ========================= */

// CashBox = checkpoint.Amount + Σsigned(semua transaksi setelah tanggal checkpoint).
// Sengaja tidak melihat subject maupun skip_balance.
func CashBox(cp Checkpoint, txs []Transaction) (int64, error) {
	total := cp.Amount
	var cpDay time.Time
	if !cp.Date.IsZero() {
		cpDay = Day(cp.Date)
	}
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return 0, err
		}
		if !cpDay.IsZero() && !Day(tx.Date).After(cpDay) {
			continue
		}
		next, err := addAmount(total, tx.Signed())
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

func NetRevenue(cashBox, totalStudentSavings int64) (int64, error) {
	return subAmount(cashBox, totalStudentSavings)
}

/* =========================
   Summary
   ========================= */

type Summary struct {
	CashBox             int64
	TotalStudentSavings int64
	NetRevenue          int64
}

func Summarize(cp Checkpoint, txs []Transaction) (Summary, error) {
	box, err := CashBox(cp, txs)
	if err != nil {
		return Summary{}, err
	}
	savings, err := TotalStudentSavings(txs)
	if err != nil {
		return Summary{}, err
	}
	net, err := NetRevenue(box, savings)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		CashBox:             box,
		TotalStudentSavings: savings,
		NetRevenue:          net,
	}, nil
}
