package ledger

import (
	"errors"
	"math"
	"testing"
)

func TestAdminFee(t *testing.T) {
	c, err := BalanceDrawDown(20000, DefaultAdminFeePercent)
	if err != nil {
		t.Fatalf("BalanceDrawDown error = %v", err)
	}
	if c.Fee != 2000 || c.Total != 22000 {
		t.Errorf("BalanceDrawDown(20000) = %+v, want fee 2000 total 22000", c)
	}

	cash, err := CashReceipt(20000)
	if err != nil {
		t.Fatalf("CashReceipt error = %v", err)
	}
	if cash.Fee != 0 || cash.Total != 20000 {
		t.Errorf("CashReceipt(20000) = %+v, want fee 0 total 20000", cash)
	}
}

func TestAdminFee_RoundsHalfUp(t *testing.T) {
	cases := map[int64]int64{
		15005: 1501, // 1500.5
		15004: 1500, // 1500.4
		5:     1,    // 0.5
		4:     0,
	}
	for nominal, want := range cases {
		got, err := AdminFee(nominal, DefaultAdminFeePercent)
		if err != nil {
			t.Fatalf("AdminFee(%d) error = %v", nominal, err)
		}
		if got != want {
			t.Errorf("AdminFee(%d) = %d, want %d", nominal, got, want)
		}
	}
	if _, err := AdminFee(0, DefaultAdminFeePercent); err == nil {
		t.Errorf("AdminFee(0) error = nil, want error")
	}
}

func TestCharge_Transaction(t *testing.T) {
	bal, _ := BalanceDrawDown(20000, DefaultAdminFeePercent)
	debit := bal.Transaction("s1", CategoryEvent, "Outing")
	if debit.Kind != KindDebit || debit.Amount != 22000 || debit.SkipBalance {
		t.Errorf("balance transaction = %+v", debit)
	}

	cash, _ := CashReceipt(20000)
	credit := cash.Transaction("s1", CategoryEvent, "Outing")
	if credit.Kind != KindCredit || credit.Amount != 20000 || !credit.SkipBalance {
		t.Errorf("cash transaction = %+v", credit)
	}
}

func TestBalanceDrawDown_Overflow(t *testing.T) {
	if _, err := BalanceDrawDown(math.MaxInt64, DefaultAdminFeePercent); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("BalanceDrawDown(MaxInt64) err = %v, want ErrAmountOverflow", err)
	}
	c, err := BalanceDrawDown(MaxAmount, DefaultAdminFeePercent)
	if err != nil || c.Total != MaxAmount+MaxAmount/10 {
		t.Errorf("BalanceDrawDown(MaxAmount) = %+v, %v", c, err)
	}
}
