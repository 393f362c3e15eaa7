package ai

import (
	"fmt"
	"strings"

	"github.com/mmynk/smartfinance/internal/calculator"
	"github.com/mmynk/smartfinance/internal/models"
)

const assistantPersona = `You are SmartFinance AI, a personal finance assistant.
Give clear, actionable and friendly advice. Use markdown for lists, bold text and key takeaways.
Never mention that you are an AI model.`

const chatPrompt = `Here is the user's transaction data for the current period:
--- TRANSACTION DATA ---
%s
--- END TRANSACTION DATA ---

Upcoming bills:
%s

Here is the user's question:
--- USER QUESTION ---
%s
--- END USER QUESTION ---

Answer in the "response" field. If the user asks you to schedule or pay a bill,
also fill "scheduleBillPayment" with the bill name, amount and due date (YYYY-MM-DD).`

const suggestPrompt = `A user has provided the following profile information:
- Country: %s
- Monthly Income: %s
- Primary Financial Goal: %s

Suggest 5 common recurring monthly expenses this user likely has, focusing on
essential expenses for their region. Use one of these categories: %s.`

const receiptPrompt = `Extract the vendor name, total amount, purchase date (YYYY-MM-DD) and a
spending category from this receipt image.`

const moderationPrompt = `Classify the following community forum post. Answer "unsafe" if it contains
hate speech, harassment, scams, spam or sharing of personal financial credentials,
otherwise "safe".

--- POST ---
%s
--- END POST ---`

const categorizePrompt = `Assign a single short spending category (for example Groceries, Transport,
Housing, Utilities, Subscriptions, Food & Dining, Shopping, Health, Income) to this
transaction description. Reply with the category name only.

Description: %s`

const reportPrompt = `Write a concise monthly financial report in markdown for these transactions.
Cover income versus spending, the largest spending categories and two or three
concrete suggestions.

%s`

// formatTransactions renders transactions as CSV lines for a prompt.
func formatTransactions(txs []models.Transaction) string {
	var sb strings.Builder
	sb.WriteString("Date,Description,Category,Amount,Type")
	for _, t := range txs {
		fmt.Fprintf(&sb, "\n%s,%s,%s,%.2f,%s", t.Date, t.Description, t.Category, t.Amount, t.Type)
	}
	return sb.String()
}

func formatBills(bills []models.Bill) string {
	if len(bills) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for i, b := range bills {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s: %.2f due %s (%s)", b.Name, b.Amount, b.DueDate, b.Status)
	}
	return sb.String()
}

const taxTipsPrompt = `Here are the user's expense totals by category:
%s

Give three to five practical, general tax tips in markdown that relate to these
expenses. Mention that rules differ by country.`

const purchasePrompt = `The user's finances:
- Monthly income: %.2f
- Bank balance: %.2f
- Recurring expenses:
%s
- Savings goals:
%s

Recent transactions:
%s

The user plans to buy "%s" for %.2f. List the advantages and the
disadvantages of making this purchase now.`

const recommendationsPrompt = `The user's investment holdings:
%s

Their goal: %s

Give three to five short, specific recommendations to improve the portfolio
toward that goal.`

const lessonPrompt = `Write a short beginner lesson in markdown about "%s". Then write one
multiple-choice question about it with four options and the correct answer,
which must be exactly one of the options.`

func formatCategories(totals []calculator.CategoryTotal) string {
	if len(totals) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for i, c := range totals {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s: %.2f", c.Category, c.Amount)
	}
	return sb.String()
}

func formatRecurring(expenses []models.RecurringExpense) string {
	if len(expenses) == 0 {
		return "  (none)"
	}
	var sb strings.Builder
	for i, e := range expenses {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "  - %s (%s): %.2f", e.Name, e.Category, e.Amount)
	}
	return sb.String()
}

func formatGoals(goals []models.SavingsGoal) string {
	if len(goals) == 0 {
		return "  (none)"
	}
	var sb strings.Builder
	for i, g := range goals {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "  - %s: %.2f of %.2f", g.Name, g.CurrentAmount, g.TargetAmount)
	}
	return sb.String()
}

func formatInvestments(investments []models.Investment) string {
	if len(investments) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for i, inv := range investments {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s (%s): %g units, bought at %.2f, now %.2f", inv.Name, inv.Type, inv.Quantity, inv.PurchasePrice, inv.CurrentPrice)
	}
	return sb.String()
}
