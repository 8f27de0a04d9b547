package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/finance/transactions/model"
)

func TestValidSubject(t *testing.T) {
	cases := map[string]bool{
		uuid.NewString():  true,
		ledger.NonStudent: true,
		" non_student ":   true,
		"":                false,
		"budi":            false,
		"NON_STUDENT":     false,
	}
	for in, want := range cases {
		if got := ValidSubject(in); got != want {
			t.Errorf("ValidSubject(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCreateTransactionRequest_ToModel(t *testing.T) {
	req := CreateTransactionRequest{
		TransactionSubjectID: " " + ledger.NonStudent + " ",
		TransactionAmount:    20000,
		TransactionKind:      "CREDIT",
		TransactionDate:      "2024-01-09",
	}
	req.Normalize()
	m, err := req.ToModel()
	if err != nil {
		t.Fatal(err)
	}
	if m.TransactionCategory != ledger.CategoryOrdinary || m.TransactionKind != ledger.KindCredit || m.TransactionSubjectID != ledger.NonStudent {
		t.Errorf("model = %+v", m)
	}

	bad := CreateTransactionRequest{TransactionSubjectID: ledger.NonStudent, TransactionAmount: 100, TransactionKind: "credit", TransactionDate: "09/01/2024"}
	if _, err := bad.ToModel(); !errors.Is(err, ledger.ErrInvalidDate) {
		t.Errorf("bad date err = %v", err)
	}
}

func TestPatchTransactionRequest_ApplyTo(t *testing.T) {
	note := "awal"
	base := func() *model.TransactionModel {
		return &model.TransactionModel{TransactionAmount: 1000, TransactionDate: mustDay("2024-01-01"), TransactionNote: &note}
	}
	cases := []struct {
		name      string
		body      string
		wantField string
		check     func(t *testing.T, m *model.TransactionModel)
	}{
		{"empty keeps everything", `{}`, "", func(t *testing.T, m *model.TransactionModel) {
			if m.TransactionAmount != 1000 || m.TransactionNote == nil {
				t.Errorf("model changed: %+v", m)
			}
		}},
		{"amount and date", `{"transaction_amount":2500,"transaction_date":"2024-02-03"}`, "", func(t *testing.T, m *model.TransactionModel) {
			if m.TransactionAmount != 2500 || ledger.DayKey(m.TransactionDate) != "2024-02-03" {
				t.Errorf("model = %+v", m)
			}
		}},
		{"null note clears", `{"transaction_note":null}`, "", func(t *testing.T, m *model.TransactionModel) {
			if m.TransactionNote != nil {
				t.Errorf("note = %v, want nil", *m.TransactionNote)
			}
		}},
		{"zero amount", `{"transaction_amount":0}`, "transaction_amount", nil},
		{"null amount", `{"transaction_amount":null}`, "transaction_amount", nil},
		{"bad date", `{"transaction_date":"besok"}`, "transaction_date", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p PatchTransactionRequest
			if err := json.Unmarshal([]byte(tc.body), &p); err != nil {
				t.Fatal(err)
			}
			m := base()
			field, _ := p.ApplyTo(m)
			if field != tc.wantField {
				t.Fatalf("field = %q, want %q", field, tc.wantField)
			}
			if tc.check != nil {
				tc.check(t, m)
			}
		})
	}
}

func mustDay(s string) time.Time {
	d, _ := ledger.ParseDay(s)
	return d
}
