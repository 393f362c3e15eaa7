package models

// IncomeFrequency is how often an investment pays out.
type IncomeFrequency string

const (
	IncomeNone      IncomeFrequency = "None"
	IncomeDaily     IncomeFrequency = "Daily"
	IncomeWeekly    IncomeFrequency = "Weekly"
	IncomeMonthly   IncomeFrequency = "Monthly"
	IncomeQuarterly IncomeFrequency = "Quarterly"
	IncomeYearly    IncomeFrequency = "Yearly"
	IncomeOneTime   IncomeFrequency = "One-time"
)

// Investment is a holding in the user's portfolio.
type Investment struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	CurrentPrice  float64 `json:"currentPrice"`

	// IncomeAmount is the payout per period (dividends, rent, interest).
	IncomeAmount    float64         `json:"incomeAmount,omitempty"`
	IncomeFrequency IncomeFrequency `json:"incomeFrequency,omitempty"`
}

func (i *Investment) EntityID() string      { return i.ID }
func (i *Investment) SetEntityID(id string) { i.ID = id }
