package models

import (
	"encoding/json"
	"testing"
)

func TestNetWorthItem(t *testing.T) {
	t.Run("signed value follows the kind", func(t *testing.T) {
		a := NetWorthAsset(Asset{ID: "a1", Name: "House", Value: 350000})
		l := NetWorthLiability(Liability{ID: "l1", Name: "Mortgage", Amount: 250000})

		if a.SignedValue() != 350000 {
			t.Errorf("asset value = %v, want 350000", a.SignedValue())
		}
		if l.SignedValue() != -250000 {
			t.Errorf("liability value = %v, want -250000", l.SignedValue())
		}
		if a.ID() != "a1" || l.Name() != "Mortgage" {
			t.Errorf("unexpected accessors: %q %q", a.ID(), l.Name())
		}
	})

	t.Run("decoding rejects mismatched payloads", func(t *testing.T) {
		var item NetWorthItem
		err := json.Unmarshal([]byte(`{"kind":"asset","liability":{"id":"l1","amount":5}}`), &item)
		if err == nil {
			t.Fatal("expected error for asset kind carrying a liability")
		}

		err = json.Unmarshal([]byte(`{"kind":"boat"}`), &item)
		if err == nil {
			t.Fatal("expected error for unknown kind")
		}
	})

	t.Run("decoding accepts a well formed liability", func(t *testing.T) {
		var item NetWorthItem
		if err := json.Unmarshal([]byte(`{"kind":"liability","liability":{"id":"l2","name":"Car Loan","amount":12000}}`), &item); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if item.Liability.Amount != 12000 {
			t.Errorf("amount = %v, want 12000", item.Liability.Amount)
		}
	})
}

func TestSplitExpenseMarkPaid(t *testing.T) {
	exp := &SplitExpense{
		Participants: []SplitParticipant{
			{Name: YouParticipant, Amount: 30, IsPaid: true},
			{Name: "Alex", Amount: 30},
		},
	}

	if !exp.MarkPaid("Alex") {
		t.Fatal("expected Alex to be found")
	}
	if !exp.Participants[1].IsPaid {
		t.Error("expected Alex to be marked paid")
	}
	if exp.MarkPaid("Nobody") {
		t.Error("expected unknown participant to be reported missing")
	}
}

func TestReadableGoal(t *testing.T) {
	if got := (UserProfile{FinancialGoal: "pay_debt"}).ReadableGoal(); got != "Pay off debt" {
		t.Errorf("ReadableGoal = %q", got)
	}
	if got := (UserProfile{}).ReadableGoal(); got != "Not specified" {
		t.Errorf("ReadableGoal = %q", got)
	}
}
