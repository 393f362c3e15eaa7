package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/smartfinance/internal/models"
)

// NetWorthSummary is the result of NetWorth.
type NetWorthSummary struct {
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	Net         float64 `json:"net"`
}

// NetWorth sums assets and liabilities.
func NetWorth(items []models.NetWorthItem) NetWorthSummary {
	assets := decimal.Zero
	liabilities := decimal.Zero
	for _, item := range items {
		switch item.Kind {
		case models.NetWorthKindAsset:
			assets = assets.Add(decimal.NewFromFloat(item.Asset.Value))
		case models.NetWorthKindLiability:
			liabilities = liabilities.Add(decimal.NewFromFloat(item.Liability.Amount))
		}
	}
	return NetWorthSummary{
		Assets:      assets.Round(2).InexactFloat64(),
		Liabilities: liabilities.Round(2).InexactFloat64(),
		Net:         assets.Sub(liabilities).Round(2).InexactFloat64(),
	}
}

// BankBalance is the sum of balances held on debit accounts. Credit card
// balances are debt and do not count.
func BankBalance(accounts []models.LinkedAccount) float64 {
	total := decimal.Zero
	for _, a := range accounts {
		if a.CardType == models.CardDebit {
			total = total.Add(decimal.NewFromFloat(a.Balance))
		}
	}
	return total.Round(2).InexactFloat64()
}
