package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/smartfinance/internal/models"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestSplitEvenly(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		participants []string
		wantErr      bool
		wantAmounts  []float64
	}{
		{
			name:         "divides evenly",
			total:        120,
			participants: []string{"You", "Alex", "Casey"},
			wantAmounts:  []float64{40, 40, 40},
		},
		{
			name:         "leftover cents go to the first participants",
			total:        100,
			participants: []string{"You", "Alex", "Casey"},
			wantAmounts:  []float64{33.34, 33.33, 33.33},
		},
		{
			name:         "fractional total",
			total:        10.01,
			participants: []string{"You", "Alex"},
			wantAmounts:  []float64{5.01, 5.00},
		},
		{
			name:         "no participants should error",
			total:        10,
			participants: nil,
			wantErr:      true,
		},
		{
			name:         "negative total should error",
			total:        -5,
			participants: []string{"You"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitEvenly(tt.total, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEvenly() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			sum := 0.0
			for i, p := range got {
				if !approx(p.Amount, tt.wantAmounts[i]) {
					t.Errorf("%s amount = %v, want %v", p.Name, p.Amount, tt.wantAmounts[i])
				}
				if p.IsPaid != (p.Name == models.YouParticipant) {
					t.Errorf("%s isPaid = %v", p.Name, p.IsPaid)
				}
				sum += p.Amount
			}
			if !approx(sum, tt.total) {
				t.Errorf("shares sum to %v, want %v", sum, tt.total)
			}
		})
	}
}

func TestSplitBalances(t *testing.T) {
	expenses := []models.SplitExpense{
		{
			ID: "se1",
			Participants: []models.SplitParticipant{
				{Name: "You", Amount: 40, IsPaid: true},
				{Name: "Alex", Amount: 40},
				{Name: "Casey", Amount: 40, IsPaid: true},
			},
		},
		{
			ID: "se2",
			Participants: []models.SplitParticipant{
				{Name: "You", Amount: 12.5},
				{Name: "Alex", Amount: 12.5},
			},
		},
	}

	got := SplitBalances(expenses)
	if !approx(got.OwedToYou, 52.5) {
		t.Errorf("OwedToYou = %v, want 52.5", got.OwedToYou)
	}
	if !approx(got.YouOwe, 12.5) {
		t.Errorf("YouOwe = %v, want 12.5", got.YouOwe)
	}
	if !approx(got.PerPerson["Alex"], 52.5) {
		t.Errorf("Alex owes %v, want 52.5", got.PerPerson["Alex"])
	}
	if _, ok := got.PerPerson["Casey"]; ok {
		t.Error("Casey has paid and should not be listed")
	}

	// Marking Alex paid on the first expense reduces what is owed.
	expenses[0].MarkPaid("Alex")
	if got := SplitBalances(expenses); !approx(got.OwedToYou, 12.5) {
		t.Errorf("OwedToYou after MarkPaid = %v, want 12.5", got.OwedToYou)
	}
}

func TestNetWorth(t *testing.T) {
	items := []models.NetWorthItem{
		models.NetWorthAsset(models.Asset{ID: "a1", Value: 8500}),
		models.NetWorthAsset(models.Asset{ID: "a2", Value: 0.1}),
		models.NetWorthLiability(models.Liability{ID: "l1", Amount: 9200.2}),
	}
	got := NetWorth(items)
	if !approx(got.Assets, 8500.1) || !approx(got.Liabilities, 9200.2) || !approx(got.Net, -700.1) {
		t.Errorf("unexpected net worth %+v", got)
	}
}

func TestBankBalance(t *testing.T) {
	accounts := []models.LinkedAccount{
		{CardType: models.CardDebit, Balance: 1200.10},
		{CardType: models.CardCredit, Balance: 900},
		{CardType: models.CardDebit, Balance: 0.2},
	}
	if got := BankBalance(accounts); !approx(got, 1200.30) {
		t.Errorf("BankBalance = %v, want 1200.30", got)
	}
}

func TestMonthlySummary(t *testing.T) {
	txs := []models.Transaction{
		{Date: "2026-07-15", Amount: 15.99, Category: "Subscriptions", Type: models.TransactionExpense},
		{Date: "2026-07-14", Amount: 3750, Category: "Income", Type: models.TransactionIncome},
		{Date: "2026-07-13", Amount: 2200, Category: "Housing", Type: models.TransactionExpense},
		{Date: "2026-07-08", Amount: 9.99, Category: "Subscriptions", Type: models.TransactionExpense},
		{Date: "2026-06-30", Amount: 50, Category: "Groceries", Type: models.TransactionExpense},
	}

	got := MonthlySummary(txs, "2026-07")
	if got.Count != 4 {
		t.Errorf("Count = %d, want 4", got.Count)
	}
	if !approx(got.Income, 3750) || !approx(got.Expenses, 2225.98) || !approx(got.Net, 1524.02) {
		t.Errorf("unexpected totals %+v", got)
	}
	if len(got.ByCategory) != 2 || got.ByCategory[0].Category != "Housing" || !approx(got.ByCategory[1].Amount, 25.98) {
		t.Errorf("unexpected categories %+v", got.ByCategory)
	}

	if all := MonthlySummary(txs, ""); all.Count != len(txs) {
		t.Errorf("empty month should include all, got %d", all.Count)
	}
}

func TestMonthlyBudget(t *testing.T) {
	got := MonthlyBudget(5000, []models.RecurringExpense{{Amount: 2200}, {Amount: 95.6}})
	if !approx(got.Recurring, 2295.6) || !approx(got.Discretionary, 2704.4) {
		t.Errorf("unexpected budget %+v", got)
	}
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name string
		goal models.SavingsGoal
		want Progress
	}{
		{"halfway", models.SavingsGoal{TargetAmount: 5000, CurrentAmount: 2500}, Progress{Percent: 50, Remaining: 2500}},
		{"overshoot caps at 100", models.SavingsGoal{TargetAmount: 100, CurrentAmount: 150}, Progress{Percent: 100, Remaining: 0, Reached: true}},
		{"zero target counts as reached", models.SavingsGoal{}, Progress{Percent: 100, Reached: true}},
		{"one third rounds", models.SavingsGoal{TargetAmount: 3, CurrentAmount: 1}, Progress{Percent: 33.3, Remaining: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GoalProgress(tt.goal)
			if !approx(got.Percent, tt.want.Percent) || !approx(got.Remaining, tt.want.Remaining) || got.Reached != tt.want.Reached {
				t.Errorf("GoalProgress() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPortfolioSummary(t *testing.T) {
	investments := []models.Investment{
		{Quantity: 10, PurchasePrice: 170, CurrentPrice: 192},
		{Quantity: 1, PurchasePrice: 100, CurrentPrice: 100, IncomeAmount: 30, IncomeFrequency: models.IncomeQuarterly},
		{Quantity: 1, IncomeAmount: 120, IncomeFrequency: models.IncomeYearly},
		{Quantity: 1, IncomeAmount: 500, IncomeFrequency: models.IncomeOneTime},
	}

	got := PortfolioSummary(investments)
	if !approx(got.Value, 2020) || !approx(got.Cost, 1800) || !approx(got.Gain, 220) {
		t.Errorf("unexpected valuation %+v", got)
	}
	if !approx(got.GainPercent, 12.22) {
		t.Errorf("GainPercent = %v, want 12.22", got.GainPercent)
	}
	if !approx(got.MonthlyIncome, 20) || !approx(got.AnnualIncome, 240) {
		t.Errorf("unexpected income %+v", got)
	}
}
