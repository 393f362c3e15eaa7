package calculator

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/smartfinance/internal/models"
)

// CategoryTotal is the spending in one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Summary aggregates transactions over a period.
type Summary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`

	// ByCategory lists expense totals, largest first.
	ByCategory []CategoryTotal `json:"byCategory"`
	Count      int             `json:"count"`
}

// MonthlySummary aggregates the transactions dated in month ("YYYY-MM").
// An empty month aggregates every transaction.
func MonthlySummary(txs []models.Transaction, month string) Summary {
	income := decimal.Zero
	expenses := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	count := 0

	for _, tx := range txs {
		if month != "" && !strings.HasPrefix(tx.Date, month) {
			continue
		}
		count++
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == models.TransactionIncome {
			income = income.Add(amount)
			continue
		}
		expenses = expenses.Add(amount)
		byCategory[tx.Category] = byCategory[tx.Category].Add(amount)
	}

	categories := make([]CategoryTotal, 0, len(byCategory))
	for name, amount := range byCategory {
		categories = append(categories, CategoryTotal{Category: name, Amount: amount.Round(2).InexactFloat64()})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Amount != categories[j].Amount {
			return categories[i].Amount > categories[j].Amount
		}
		return categories[i].Category < categories[j].Category
	})

	return Summary{
		Income:     income.Round(2).InexactFloat64(),
		Expenses:   expenses.Round(2).InexactFloat64(),
		Net:        income.Sub(expenses).Round(2).InexactFloat64(),
		ByCategory: categories,
		Count:      count,
	}
}

// Budget is the monthly plan built from income and recurring costs.
type Budget struct {
	MonthlyIncome float64 `json:"monthlyIncome"`
	Recurring     float64 `json:"recurring"`
	Discretionary float64 `json:"discretionary"`
}

// MonthlyBudget subtracts the recurring expenses from the monthly income.
func MonthlyBudget(income float64, recurring []models.RecurringExpense) Budget {
	total := decimal.Zero
	for _, r := range recurring {
		total = total.Add(decimal.NewFromFloat(r.Amount))
	}
	in := decimal.NewFromFloat(income)
	return Budget{
		MonthlyIncome: in.Round(2).InexactFloat64(),
		Recurring:     total.Round(2).InexactFloat64(),
		Discretionary: in.Sub(total).Round(2).InexactFloat64(),
	}
}
