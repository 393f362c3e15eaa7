package models

// NotificationSettings toggles the notification channels.
type NotificationSettings struct {
	DailySummary  bool `json:"dailySummary"`
	BillReminders bool `json:"billReminders"`
	BudgetAlerts  bool `json:"budgetAlerts"`
}

// Settings is the singleton user preferences record.
type Settings struct {
	Theme          string               `json:"theme"`
	Currency       string               `json:"currency"`
	TravelMode     bool                 `json:"travelMode"`
	GoalAutomation bool                 `json:"goalAutomation"`
	Notifications  NotificationSettings `json:"notifications"`
}

// DefaultSettings is written by the seed on first run.
func DefaultSettings() Settings {
	return Settings{
		Theme:    "dark",
		Currency: "USD",
		Notifications: NotificationSettings{
			DailySummary:  true,
			BillReminders: true,
			BudgetAlerts:  true,
		},
	}
}

// UserProfile is the singleton created when onboarding completes.
type UserProfile struct {
	FullName         string  `json:"fullName"`
	DateOfBirth      string  `json:"dateOfBirth"`
	Country          string  `json:"country"`
	LocationVerified bool    `json:"locationVerified"`
	MonthlyIncome    float64 `json:"monthlyIncome"`

	// FinancialGoal is one of the onboarding goal codes (save_big, invest,
	// pay_debt, build_wealth).
	FinancialGoal string `json:"financialGoal"`
}

var financialGoals = map[string]string{
	"save_big":     "Save for a big purchase",
	"invest":       "Invest for retirement",
	"pay_debt":     "Pay off debt",
	"build_wealth": "Build wealth",
}

// ReadableGoal returns the human description of FinancialGoal.
func (p UserProfile) ReadableGoal() string {
	if s, ok := financialGoals[p.FinancialGoal]; ok {
		return s
	}
	return "Not specified"
}
