package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/smartfinance/internal/models"
)

// Portfolio is the aggregate view of all investments.
type Portfolio struct {
	Value         float64 `json:"value"`
	Cost          float64 `json:"cost"`
	Gain          float64 `json:"gain"`
	GainPercent   float64 `json:"gainPercent"`
	MonthlyIncome float64 `json:"monthlyIncome"`
	AnnualIncome  float64 `json:"annualIncome"`
}

var weeksPerMonth = decimal.RequireFromString("4.33")

// monthlyIncome normalizes a recurring payout to a monthly amount.
// One-time payouts do not recur and count as zero.
func monthlyIncome(inv models.Investment) decimal.Decimal {
	amount := decimal.NewFromFloat(inv.IncomeAmount)
	if !amount.IsPositive() {
		return decimal.Zero
	}
	switch inv.IncomeFrequency {
	case models.IncomeDaily:
		return amount.Mul(decimal.NewFromInt(30))
	case models.IncomeWeekly:
		return amount.Mul(weeksPerMonth)
	case models.IncomeMonthly:
		return amount
	case models.IncomeQuarterly:
		return amount.Div(decimal.NewFromInt(3))
	case models.IncomeYearly:
		return amount.Div(decimal.NewFromInt(12))
	}
	return decimal.Zero
}

// PortfolioSummary values the holdings at current price and projects income.
func PortfolioSummary(investments []models.Investment) Portfolio {
	value := decimal.Zero
	cost := decimal.Zero
	monthly := decimal.Zero

	for _, inv := range investments {
		qty := decimal.NewFromFloat(inv.Quantity)
		value = value.Add(qty.Mul(decimal.NewFromFloat(inv.CurrentPrice)))
		cost = cost.Add(qty.Mul(decimal.NewFromFloat(inv.PurchasePrice)))
		monthly = monthly.Add(monthlyIncome(inv))
	}

	gain := value.Sub(cost)
	gainPct := decimal.Zero
	if cost.IsPositive() {
		gainPct = gain.Div(cost).Mul(decimal.NewFromInt(100))
	}

	return Portfolio{
		Value:         value.Round(2).InexactFloat64(),
		Cost:          cost.Round(2).InexactFloat64(),
		Gain:          gain.Round(2).InexactFloat64(),
		GainPercent:   gainPct.Round(2).InexactFloat64(),
		MonthlyIncome: monthly.Round(2).InexactFloat64(),
		AnnualIncome:  monthly.Mul(decimal.NewFromInt(12)).Round(2).InexactFloat64(),
	}
}
