// file: internals/features/finance/ledger/types.go
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

/* =========================
   Enums
   ========================= */

type Kind string

const (
	KindCredit Kind = "credit"
	KindDebit  Kind = "debit"
)

func (k Kind) IsValid() bool { return k == KindCredit || k == KindDebit }

// Sign: credit +1, debit -1, selain itu 0
func (k Kind) Sign() int64 {
	switch k {
	case KindCredit:
		return 1
	case KindDebit:
		return -1
	default:
		return 0
	}
}

type Category string

const (
	CategoryOrdinary Category = "ordinary"
	CategoryEvent    Category = "event"
	CategoryOther    Category = "other"
)

func (c Category) IsValid() bool {
	return c == CategoryOrdinary || c == CategoryEvent || c == CategoryOther
}

// NonStudent adalah subject sentinel untuk transaksi yang bukan milik siswa
// (pemasukan/pengeluaran lembaga).
const NonStudent = "non_student"

/* =========================
   Errors
   ========================= */

var (
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	ErrInvalidKind   = errors.New("kind must be credit or debit")
	ErrInvalidDate   = errors.New("date is required")
	ErrEmptySubject  = errors.New("subject is required")
	// ErrAmountOverflow: total melewati rentang int64.
	ErrAmountOverflow = errors.New("amount total overflows int64")
)

// MaxAmount batas atas satu nominal yang diterima API (Rp 1 triliun).
const MaxAmount int64 = 1_000_000_000_000

func addAmount(a, b int64) (int64, error) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, ErrAmountOverflow
	}
	return s, nil
}

func subAmount(a, b int64) (int64, error) {
	s := a - b
	if (b > 0 && s > a) || (b < 0 && s < a) {
		return 0, ErrAmountOverflow
	}
	return s, nil
}

/* =========================
   Records
   ========================= */

// Transaction adalah bentuk transaksi yang dipakai engine; lepas dari skema DB.
type Transaction struct {
	ID          string
	SubjectID   string
	Amount      int64
	Kind        Kind
	Date        time.Time
	Category    Category
	Note        string
	SkipBalance bool
	CreatedAt   time.Time
}

func (t Transaction) IsNonStudent() bool { return t.SubjectID == NonStudent }

// Signed mengembalikan amount bertanda sesuai kind.
func (t Transaction) Signed() int64 { return t.Amount * t.Kind.Sign() }

// Validate memastikan input derivasi tidak menghasilkan total yang salah diam-diam.
func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrInvalidAmount)
	}
	if !t.Kind.IsValid() {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrInvalidKind)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrInvalidDate)
	}
	if strings.TrimSpace(t.SubjectID) == "" {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrEmptySubject)
	}
	return nil
}

// Checkpoint = hitungan fisik brankas terakhir.
type Checkpoint struct {
	Amount int64
	Date   time.Time
}

/* =========================
   Calendar day helpers
   ========================= */

const DayLayout = "2006-01-02"

// Day memotong komponen jam; tanggal kalender diambil dari zona waktu t sendiri.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func DayKey(t time.Time) string { return t.Format(DayLayout) }

// ParseDay: "YYYY-MM-DD" → tengah malam UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysBetween menghasilkan daftar hari [from, to] inklusif.
func DaysBetween(from, to time.Time) []time.Time {
	from, to = Day(from), Day(to)
	if to.Before(from) {
		return nil
	}
	out := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
