// file: internals/features/finance/ledger/fee.go
package ledger

import (
	"github.com/shopspring/decimal"
)

// DefaultAdminFeePercent: potongan admin saat pembayaran diambil dari saldo tabungan.
// Dipakai sebagai default ADMIN_FEE_PERCENT.
const DefaultAdminFeePercent = 10

type Method string

const (
	MethodBalance Method = "balance" // potong saldo tabungan siswa
	MethodCash    Method = "cash"    // dibayar tunai
)

func (m Method) IsValid() bool { return m == MethodBalance || m == MethodCash }

// Charge: rincian satu pembayaran.
type Charge struct {
	Method  Method `json:"method"`
	Nominal int64  `json:"nominal"`
	Fee     int64  `json:"fee"`
	Total   int64  `json:"total"` // amount yang disimpan di transaksi
}

// AdminFee = nominal × percent/100, dibulatkan half-up ke rupiah utuh.
func AdminFee(nominal int64, percent int64) (int64, error) {
	if nominal <= 0 {
		return 0, ErrInvalidAmount
	}
	if percent <= 0 {
		return 0, nil
	}
	fee := decimal.NewFromInt(nominal).
		Mul(decimal.NewFromInt(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return fee.IntPart(), nil
}

// BalanceDrawDown: nominal + fee, didebit dari saldo siswa.
func BalanceDrawDown(nominal int64, percent int64) (Charge, error) {
	fee, err := AdminFee(nominal, percent)
	if err != nil {
		return Charge{}, err
	}
	total, err := addAmount(nominal, fee)
	if err != nil {
		return Charge{}, err
	}
	return Charge{Method: MethodBalance, Nominal: nominal, Fee: fee, Total: total}, nil
}

// CashReceipt: pembayaran tunai tidak pernah kena fee.
func CashReceipt(nominal int64) (Charge, error) {
	if nominal <= 0 {
		return Charge{}, ErrInvalidAmount
	}
	return Charge{Method: MethodCash, Nominal: nominal, Total: nominal}, nil
}

func ChargeFor(method Method, nominal int64, percent int64) (Charge, error) {
	if method == MethodBalance {
		return BalanceDrawDown(nominal, percent)
	}
	return CashReceipt(nominal)
}

// Transaction membentuk transaksi yang akan disimpan untuk charge ini.
// Balance → debit total dari saldo; cash → credit nominal, skip_balance.
func (c Charge) Transaction(subjectID string, category Category, note string) Transaction {
	tx := Transaction{
		SubjectID: subjectID,
		Amount:    c.Total,
		Category:  category,
		Note:      note,
	}
	if c.Method == MethodBalance {
		tx.Kind = KindDebit
	} else {
		tx.Kind = KindCredit
		tx.SkipBalance = true
	}
	return tx
}
