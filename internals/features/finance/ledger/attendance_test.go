package ledger

import (
	"encoding/json"
	"testing"
)

func TestEffectiveStatus_Precedence(t *testing.T) {
	d := day("2024-03-04")
	payments, err := NewPaymentIndex([]Transaction{tx("1", "s1", KindCredit, 5000, "2024-03-04")})
	if err != nil {
		t.Fatalf("NewPaymentIndex error = %v", err)
	}

	got := EffectiveStatus(nil, payments, d, "s1")
	if got.Status != PresentPaid || got.Source != SourcePayment {
		t.Errorf("no manual entry: got %+v, want present_paid from payment", got)
	}

	manual := map[string]AttendanceStatus{"s1": Absent}
	got = EffectiveStatus(manual, payments, d, "s1")
	if got.Status != Absent || got.Source != SourceManual {
		t.Errorf("manual absent: got %+v, want absent from manual", got)
	}

	manual = map[string]AttendanceStatus{"s1": Unmarked}
	if got = EffectiveStatus(manual, payments, d, "s1"); got.Status != PresentPaid {
		t.Errorf("manual unmarked should fall through to payment, got %+v", got)
	}

	if got = EffectiveStatus(nil, payments, d, "s2"); got.Status != Unmarked {
		t.Errorf("no data: got %+v, want unmarked", got)
	}
}

func TestPaymentIndex_IgnoresDebitsAndNonStudent(t *testing.T) {
	payments, _ := NewPaymentIndex([]Transaction{
		tx("1", "s1", KindDebit, 5000, "2024-03-04"),
		tx("2", NonStudent, KindCredit, 5000, "2024-03-04"),
		tx("3", "s2", KindCredit, 5000, "2024-03-05"),
	})
	d := day("2024-03-04")
	if payments.Paid(d, "s1") || payments.Paid(d, NonStudent) || payments.Paid(d, "s2") {
		t.Errorf("unexpected payment match: %v", payments)
	}
}

func TestPersistableStatuses_AllUnmarkedIsEmpty(t *testing.T) {
	in := map[string]AttendanceStatus{"s1": Unmarked, "s2": Unmarked}
	if got := PersistableStatuses(in); len(got) != 0 {
		t.Errorf("PersistableStatuses = %v, want empty", got)
	}

	in = map[string]AttendanceStatus{"s1": Unmarked, "s2": Sick}
	got := PersistableStatuses(in)
	if len(got) != 1 || got["s2"] != Sick {
		t.Errorf("PersistableStatuses = %v, want only s2=sick", got)
	}
}

func TestResolveDay_IncludesOrphanManualEntries(t *testing.T) {
	d := day("2024-03-04")
	manual := map[string]AttendanceStatus{"gone": Excused}
	got := ResolveDay(d, []string{"s1"}, manual, PaymentIndex{})
	if got["s1"].Status != Unmarked {
		t.Errorf("s1 = %v, want unmarked", got["s1"])
	}
	if got["gone"].Status != Excused {
		t.Errorf("orphan = %v, want excused", got["gone"])
	}
}

func TestDailyFeeSeries(t *testing.T) {
	payments, _ := NewPaymentIndex([]Transaction{
		tx("1", "s1", KindCredit, 5000, "2024-03-04"),
		tx("2", "s2", KindCredit, 5000, "2024-03-04"),
		tx("3", "s1", KindCredit, 5000, "2024-03-05"),
	})
	manual := map[string]map[string]AttendanceStatus{
		"2024-03-04": {"s2": Sick},
		"2024-03-05": {"s3": PresentPaid},
	}
	days := DaysBetween(day("2024-03-04"), day("2024-03-06"))
	series := DailyFeeSeries(days, []string{"s1", "s2", "s3"}, manual, payments, 3000)

	want := []int64{3000, 6000, 0}
	for i, p := range series {
		if p.Fee != want[i] {
			t.Errorf("%s fee = %d, want %d", DayKey(p.Day), p.Fee, want[i])
		}
	}
}

func TestAttendanceStatus_TextRoundTrip(t *testing.T) {
	m := map[string]AttendanceStatus{"s1": PresentPaid, "s2": Sick}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(b) != `{"s1":"present_paid","s2":"sick"}` {
		t.Errorf("Marshal = %s", b)
	}

	for _, token := range []string{"H", "h", "present_paid"} {
		st, err := ParseStatus(token)
		if err != nil || st != PresentPaid {
			t.Errorf("ParseStatus(%q) = %v, %v", token, st, err)
		}
	}
	if _, err := ParseStatus("late"); err == nil {
		t.Errorf("ParseStatus(late) error = nil, want error")
	}
}

func TestSubjectName(t *testing.T) {
	names := map[string]string{"s1": "Aisyah"}
	if got := SubjectName(names, "s1"); got != "Aisyah" {
		t.Errorf("SubjectName(s1) = %q", got)
	}
	if got := SubjectName(names, "deleted"); got != UnknownSubjectName {
		t.Errorf("SubjectName(deleted) = %q, want %q", got, UnknownSubjectName)
	}
	if got := SubjectName(names, NonStudent); got != NonStudentSubjectName {
		t.Errorf("SubjectName(non_student) = %q", got)
	}
}
