package seed

import "github.com/mmynk/smartfinance/internal/models"

var transactions = []models.Transaction{
	{ID: "1", Date: "2026-07-15", Description: "Netflix Subscription", Amount: 15.99, Category: "Subscriptions", Type: models.TransactionExpense},
	{ID: "2", Date: "2026-07-15", Description: "Whole Foods Market", Amount: 124.50, Category: "Groceries", Type: models.TransactionExpense},
	{ID: "3", Date: "2026-07-14", Description: "Salary Deposit", Amount: 3750.00, Category: "Income", Type: models.TransactionIncome},
	{ID: "4", Date: "2026-07-14", Description: "Shell Gas Station", Amount: 55.20, Category: "Transport", Type: models.TransactionExpense},
	{ID: "5", Date: "2026-07-13", Description: "Rent Payment", Amount: 2200.00, Category: "Housing", Type: models.TransactionExpense},
	{ID: "6", Date: "2026-07-12", Description: "The Daily Grind Cafe", Amount: 8.75, Category: "Food & Dining", Type: models.TransactionExpense},
	{ID: "7", Date: "2026-07-11", Description: "Amazon.com Order", Amount: 78.90, Category: "Shopping", Type: models.TransactionExpense},
	{ID: "8", Date: "2026-07-10", Description: "Electricity Bill", Amount: 95.60, Category: "Utilities", Type: models.TransactionExpense},
	{ID: "9", Date: "2026-07-08", Description: "Spotify Premium", Amount: 9.99, Category: "Subscriptions", Type: models.TransactionExpense},
	{ID: "10", Date: "2026-07-05", Description: "Dinner at The Italian Place", Amount: 85.00, Category: "Food & Dining", Type: models.TransactionExpense},
	{ID: "11", Date: "2026-07-02", Description: "Freelance Project Payment", Amount: 500.00, Category: "Income", Type: models.TransactionIncome},
	{ID: "12", Date: "2026-07-01", Description: "Gym Membership", Amount: 40.00, Category: "Health", Type: models.TransactionExpense},
}

var bills = []models.Bill{
	{ID: "b1", Name: "Rent", DueDate: "2026-08-01", Amount: 2200, Type: models.BillTypeBill, Status: models.BillPaid},
	{ID: "b2", Name: "Internet Bill", DueDate: "2026-08-05", Amount: 65, Type: models.BillTypeBill, Status: models.BillPendingApproval},
	{ID: "b3", Name: "Car Insurance", DueDate: "2026-08-10", Amount: 120, Type: models.BillTypeBill, Status: models.BillScheduled},
	{ID: "b4", Name: "Netflix", DueDate: "2026-08-15", Amount: 15.99, Type: models.BillTypeSubscription, Status: models.BillPendingApproval},
}

var assets = []models.Asset{
	{ID: "a1", Name: "Checking Account", Value: 8500, Category: "Cash"},
	{ID: "a2", Name: "Retirement Fund", Value: 42000, Category: "Investments"},
	{ID: "a3", Name: "Car", Value: 15000, Category: "Vehicle"},
}

var liabilities = []models.Liability{
	{ID: "l1", Name: "Car Loan", Amount: 9200, Category: "Loan"},
	{ID: "l2", Name: "Credit Card", Amount: 1350, Category: "Credit"},
}

var forumPosts = []models.ForumPost{
	{ID: "p1", Author: "Jordan", Title: "How I paid off $10k in a year", Content: "Snowball method plus a side gig did it for me.", Timestamp: "2026-07-10T09:00:00Z", Comments: 12},
	{ID: "p2", Author: "Priya", Title: "Best high-yield savings accounts?", Content: "Looking for recommendations for my emergency fund.", Timestamp: "2026-07-12T18:30:00Z", Comments: 7},
}

var challenges = []models.Challenge{
	{ID: "c1", Name: "No-Spend Weekend", TargetAmount: 100, CurrentAmount: 40, IsOpen: true},
	{ID: "c2", Name: "Save $1,000 in 30 Days", TargetAmount: 1000, CurrentAmount: 0, IsOpen: true},
}

var badges = []models.Badge{
	{ID: "bd1", Name: "First Budget", Description: "Created your first budget.", EarnedDate: "2026-06-01"},
	{ID: "bd2", Name: "Goal Getter", Description: "Reached 50% of a savings goal.", EarnedDate: "2026-07-14"},
}

var investments = []models.Investment{
	{ID: "i1", Name: "S&P 500 Index Fund", Type: "ETF", Quantity: 25, PurchasePrice: 410, CurrentPrice: 455, IncomeAmount: 32, IncomeFrequency: models.IncomeQuarterly},
	{ID: "i2", Name: "Apple Inc.", Type: "Stock", Quantity: 10, PurchasePrice: 170, CurrentPrice: 192},
	{ID: "i3", Name: "Rental Property", Type: "Real Estate", Quantity: 1, PurchasePrice: 180000, CurrentPrice: 205000, IncomeAmount: 1400, IncomeFrequency: models.IncomeMonthly},
}

var splitExpenses = []models.SplitExpense{
	{
		ID:          "se1",
		Description: "Team Dinner",
		TotalAmount: 120,
		Date:        "2026-07-09",
		Participants: []models.SplitParticipant{
			{Name: models.YouParticipant, Amount: 40, IsPaid: true},
			{Name: "Alex", Amount: 40},
			{Name: "Casey", Amount: 40, IsPaid: true},
		},
	},
}
