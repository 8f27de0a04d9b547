// file: internals/features/finance/ledger/attendance.go
package ledger

import (
	"fmt"
	"strings"
	"time"
)

/* =========================
   Attendance status
   ========================= */

type AttendanceStatus uint8

const (
	Unmarked AttendanceStatus = iota
	PresentNoPayment
	PresentPaid
	Sick
	Excused
	Absent
)

type statusInfo struct {
	code  string
	glyph string
	label string
}

var statusTable = map[AttendanceStatus]statusInfo{
	Unmarked:         {"unmarked", "-", "Belum diisi"},
	PresentNoPayment: {"present_unpaid", "?", "Hadir (belum bayar)"},
	PresentPaid:      {"present_paid", "H", "Hadir"},
	Sick:             {"sick", "S", "Sakit"},
	Excused:          {"excused", "I", "Izin"},
	Absent:           {"absent", "A", "Alpa"},
}

var statusByToken = func() map[string]AttendanceStatus {
	m := make(map[string]AttendanceStatus, len(statusTable)*2)
	for st, info := range statusTable {
		m[info.code] = st
		m[strings.ToLower(info.glyph)] = st
	}
	m[""] = Unmarked
	return m
}()

func (s AttendanceStatus) Code() string  { return statusTable[s].code }
func (s AttendanceStatus) Glyph() string { return statusTable[s].glyph }
func (s AttendanceStatus) Label() string { return statusTable[s].label }
func (s AttendanceStatus) String() string {
	if info, ok := statusTable[s]; ok {
		return info.code
	}
	return fmt.Sprintf("AttendanceStatus(%d)", uint8(s))
}

func (s AttendanceStatus) IsValid() bool {
	_, ok := statusTable[s]
	return ok
}

// ParseStatus menerima code ("present_paid") maupun glyph lama ("H").
func ParseStatus(token string) (AttendanceStatus, error) {
	st, ok := statusByToken[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return Unmarked, fmt.Errorf("unknown attendance status %q", token)
	}
	return st, nil
}

func (s AttendanceStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid attendance status %d", uint8(s))
	}
	return []byte(s.Code()), nil
}

func (s *AttendanceStatus) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

/* =========================
   Payment index
   ========================= */

// PaymentIndex: set (hari, siswa) yang punya transaksi credit hari itu.
type PaymentIndex map[string]struct{}

func paymentKey(day time.Time, subjectID string) string {
	return DayKey(day) + "|" + subjectID
}

func NewPaymentIndex(txs []Transaction) (PaymentIndex, error) {
	idx := make(PaymentIndex)
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		if tx.Kind != KindCredit || tx.IsNonStudent() {
			continue
		}
		idx[paymentKey(tx.Date, tx.SubjectID)] = struct{}{}
	}
	return idx, nil
}

func (p PaymentIndex) Paid(day time.Time, subjectID string) bool {
	_, ok := p[paymentKey(day, subjectID)]
	return ok
}

/* =========================
   Effective status
   ========================= */

type Source string

const (
	SourceManual  Source = "manual"
	SourcePayment Source = "payment"
	SourceNone    Source = "none"
)

type Resolved struct {
	Status AttendanceStatus
	Source Source
}

// EffectiveStatus: manual (selain unmarked) > pembayaran hari itu > unmarked.
func EffectiveStatus(manual map[string]AttendanceStatus, payments PaymentIndex, day time.Time, subjectID string) Resolved {
	if st, ok := manual[subjectID]; ok && st != Unmarked {
		return Resolved{Status: st, Source: SourceManual}
	}
	if payments.Paid(day, subjectID) {
		return Resolved{Status: PresentPaid, Source: SourcePayment}
	}
	return Resolved{Status: Unmarked, Source: SourceNone}
}

// ResolveDay menghitung status efektif seluruh siswa untuk satu hari.
// Entri manual milik siswa yang tidak ada di daftar (orphan) ikut diresolve.
func ResolveDay(day time.Time, subjectIDs []string, manual map[string]AttendanceStatus, payments PaymentIndex) map[string]Resolved {
	out := make(map[string]Resolved, len(subjectIDs))
	for _, id := range subjectIDs {
		out[id] = EffectiveStatus(manual, payments, day, id)
	}
	for id := range manual {
		if _, seen := out[id]; !seen {
			out[id] = EffectiveStatus(manual, payments, day, id)
		}
	}
	return out
}

// PersistableStatuses membuang unmarked; hasilnya menggantikan seluruh isi hari.
func PersistableStatuses(statuses map[string]AttendanceStatus) map[string]AttendanceStatus {
	out := make(map[string]AttendanceStatus, len(statuses))
	for id, st := range statuses {
		if st == Unmarked || !st.IsValid() {
			continue
		}
		out[id] = st
	}
	return out
}

/* =========================
   Daily fee
   ========================= */

func DailyFee(resolved map[string]Resolved, perHead int64) int64 {
	return paidCount(resolved) * perHead
}

func paidCount(resolved map[string]Resolved) int64 {
	var n int64
	for _, r := range resolved {
		if r.Status == PresentPaid {
			n++
		}
	}
	return n
}

type DailyFeePoint struct {
	Day       time.Time
	PaidCount int64
	Fee       int64
}

// DailyFeeSeries: titik data per hari untuk grafik pemasukan absensi.
func DailyFeeSeries(days []time.Time, subjectIDs []string, manualByDay map[string]map[string]AttendanceStatus, payments PaymentIndex, perHead int64) []DailyFeePoint {
	out := make([]DailyFeePoint, 0, len(days))
	for _, day := range days {
		resolved := ResolveDay(day, subjectIDs, manualByDay[DayKey(day)], payments)
		n := paidCount(resolved)
		out = append(out, DailyFeePoint{Day: Day(day), PaidCount: n, Fee: n * perHead})
	}
	return out
}

/* =========================
   Subject display
   ========================= */

const (
	UnknownSubjectName    = "Unknown"
	NonStudentSubjectName = "Non-siswa"
)

// SubjectName tidak pernah gagal: id yang tidak dikenal → "Unknown".
func SubjectName(names map[string]string, subjectID string) string {
	if subjectID == NonStudent {
		return NonStudentSubjectName
	}
	if n, ok := names[subjectID]; ok && strings.TrimSpace(n) != "" {
		return n
	}
	return UnknownSubjectName
}
