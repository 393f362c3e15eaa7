package models

// TransactionType tells income apart from spending.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a single money movement on one of the user's accounts.
type Transaction struct {
	ID string `json:"id"`

	// Date is an ISO date (YYYY-MM-DD).
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
}

func (t *Transaction) EntityID() string      { return t.ID }
func (t *Transaction) SetEntityID(id string) { t.ID = id }

// RecurringExpense is a fixed monthly cost used to build the budget.
type RecurringExpense struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

func (r *RecurringExpense) EntityID() string      { return r.ID }
func (r *RecurringExpense) SetEntityID(id string) { r.ID = id }

// RecurringExpenseCategories are the categories offered for recurring costs.
var RecurringExpenseCategories = []string{
	"Housing",
	"Utilities",
	"Subscriptions",
	"Transport",
	"Insurance",
	"Groceries",
	"Debt Payment",
	"Health",
	"Other",
}
