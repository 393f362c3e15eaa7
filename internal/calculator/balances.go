package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/smartfinance/internal/models"
)

// SplitBalance totals the open amounts across all split expenses.
type SplitBalance struct {
	OwedToYou float64 `json:"owedToYou"` // Unpaid shares of other participants
	YouOwe    float64 `json:"youOwe"`    // Unpaid shares of the current user

	// PerPerson maps each other participant to what they still owe.
	PerPerson map[string]float64 `json:"perPerson"`
}

// SplitBalances computes what others owe the current user and what the
// current user still owes. Paid shares are ignored.
func SplitBalances(expenses []models.SplitExpense) SplitBalance {
	owedToYou := decimal.Zero
	youOwe := decimal.Zero
	perPerson := make(map[string]decimal.Decimal)

	for _, e := range expenses {
		for _, p := range e.Participants {
			if p.IsPaid {
				continue
			}
			amount := decimal.NewFromFloat(p.Amount)
			if p.Name == models.YouParticipant {
				youOwe = youOwe.Add(amount)
				continue
			}
			owedToYou = owedToYou.Add(amount)
			perPerson[p.Name] = perPerson[p.Name].Add(amount)
		}
	}

	balance := SplitBalance{
		OwedToYou: owedToYou.Round(2).InexactFloat64(),
		YouOwe:    youOwe.Round(2).InexactFloat64(),
		PerPerson: make(map[string]float64, len(perPerson)),
	}
	for name, amount := range perPerson {
		balance.PerPerson[name] = amount.Round(2).InexactFloat64()
	}
	return balance
}
