package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mmynk/smartfinance/internal/calculator"
	"github.com/mmynk/smartfinance/internal/models"
)

// DefaultInvestmentGoal is used when a recommendation request names no goal.
const DefaultInvestmentGoal = "Build long-term wealth"

// PurchaseContext is the financial position a purchase is weighed against.
type PurchaseContext struct {
	MonthlyIncome     float64
	BankBalance       float64
	RecurringExpenses []models.RecurringExpense
	Goals             []models.SavingsGoal
	Transactions      []models.Transaction
}

// Purchase is a planned spend.
type Purchase struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// PurchaseAdvice lists the arguments for and against a purchase.
type PurchaseAdvice struct {
	Advantages    []string `json:"advantages"`
	Disadvantages []string `json:"disadvantages"`
}

// Lesson is a short financial literacy lesson with one quiz question.
// Answer is one of Options.
type Lesson struct {
	Lesson   string   `json:"lesson"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// TaxTips suggests deductions and savings for the given expense totals.
func (g *Gateway) TaxTips(ctx context.Context, expenses []calculator.CategoryTotal) string {
	const op = "tax_tips"
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return LocalTaxTips(expenses)
	}

	out, err := g.generate(ctx, op, Request{Prompt: fmt.Sprintf(taxTipsPrompt, formatCategories(expenses))})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return LocalTaxTips(expenses)
	}
	return out
}

// LocalTaxTips builds general tax tips around the largest expense categories.
func LocalTaxTips(expenses []calculator.CategoryTotal) string {
	var sb strings.Builder
	sb.WriteString("**Tax Tips**\n\n")
	sb.WriteString("- **Keep receipts:** Store receipts for medical, education and charitable expenses; many of them are deductible.\n")
	sb.WriteString("- **Use tax-advantaged accounts:** Contributions to retirement and health savings accounts can lower taxable income.\n")
	sb.WriteString("- **Track work expenses:** Home office, equipment and professional fees may qualify if you are self-employed.\n")

	if len(expenses) > 0 {
		top := expenses[:min(3, len(expenses))]
		names := make([]string, 0, len(top))
		for _, c := range top {
			names = append(names, fmt.Sprintf("%s (%.2f)", c.Category, c.Amount))
		}
		fmt.Fprintf(&sb, "\nYour largest spending categories are %s. Check whether any of it is deductible where you live.\n",
			strings.Join(names, ", "))
	}
	return sb.String()
}

var adviceSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"advantages":    {Type: TypeArray, Items: &Schema{Type: TypeString}},
		"disadvantages": {Type: TypeArray, Items: &Schema{Type: TypeString}},
	},
	Required: []string{"advantages", "disadvantages"},
}

// PrePurchaseAdvice weighs a planned purchase against the user's finances.
func (g *Gateway) PrePurchaseAdvice(ctx context.Context, pc PurchaseContext, p Purchase) PurchaseAdvice {
	const op = "purchase_advice"
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return LocalPurchaseAdvice(pc, p)
	}

	out, err := g.generate(ctx, op, Request{
		Prompt: fmt.Sprintf(purchasePrompt,
			pc.MonthlyIncome, pc.BankBalance,
			formatRecurring(pc.RecurringExpenses), formatGoals(pc.Goals),
			formatTransactions(pc.Transactions),
			p.Description, p.Amount,
		),
		Schema: adviceSchema,
	})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return LocalPurchaseAdvice(pc, p)
	}

	var advice PurchaseAdvice
	if err := json.Unmarshal([]byte(out), &advice); err != nil || (len(advice.Advantages) == 0 && len(advice.Disadvantages) == 0) {
		g.fallback(ctx, op, reasonInvalid, err)
		return LocalPurchaseAdvice(pc, p)
	}
	if advice.Advantages == nil {
		advice.Advantages = []string{}
	}
	if advice.Disadvantages == nil {
		advice.Disadvantages = []string{}
	}
	return advice
}

// LocalPurchaseAdvice compares the purchase with the bank balance and the
// monthly budget left after recurring expenses.
func LocalPurchaseAdvice(pc PurchaseContext, p Purchase) PurchaseAdvice {
	advice := PurchaseAdvice{Advantages: []string{}, Disadvantages: []string{}}
	budget := calculator.MonthlyBudget(pc.MonthlyIncome, pc.RecurringExpenses)

	if pc.BankBalance >= p.Amount {
		advice.Advantages = append(advice.Advantages,
			fmt.Sprintf("You can pay for it from your bank balance and keep %.2f.", pc.BankBalance-p.Amount))
	} else {
		advice.Disadvantages = append(advice.Disadvantages,
			fmt.Sprintf("It costs %.2f more than your current bank balance.", p.Amount-pc.BankBalance))
	}

	switch {
	case budget.Discretionary <= 0:
		advice.Disadvantages = append(advice.Disadvantages,
			"Your recurring expenses already use all of your monthly income.")
	case p.Amount <= budget.Discretionary/10:
		advice.Advantages = append(advice.Advantages,
			fmt.Sprintf("It is a small share of the %.2f you have left each month after recurring expenses.", budget.Discretionary))
	case p.Amount > budget.Discretionary:
		advice.Disadvantages = append(advice.Disadvantages,
			fmt.Sprintf("It is more than the %.2f you have left each month after recurring expenses.", budget.Discretionary))
	default:
		advice.Disadvantages = append(advice.Disadvantages,
			fmt.Sprintf("It takes %.0f%% of the money you have left this month.", p.Amount/budget.Discretionary*100))
	}

	for _, goal := range pc.Goals {
		remaining := goal.TargetAmount - goal.CurrentAmount
		if remaining > 0 && p.Amount >= remaining/4 {
			advice.Disadvantages = append(advice.Disadvantages,
				fmt.Sprintf("The same money would cover a large part of the %.2f still needed for %q.", remaining, goal.Name))
			break
		}
	}

	if len(advice.Advantages) == 0 {
		advice.Advantages = append(advice.Advantages, "If it replaces a recurring cost, it may pay for itself over time.")
	}
	return advice
}

var recommendationsSchema = &Schema{
	Type:  TypeArray,
	Items: &Schema{Type: TypeString},
}

// InvestmentRecommendations suggests portfolio changes toward goal.
func (g *Gateway) InvestmentRecommendations(ctx context.Context, investments []models.Investment, goal string) []string {
	const op = "investment_recommendations"
	if goal == "" {
		goal = DefaultInvestmentGoal
	}
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return LocalRecommendations(investments)
	}

	out, err := g.generate(ctx, op, Request{
		Prompt: fmt.Sprintf(recommendationsPrompt, formatInvestments(investments), goal),
		Schema: recommendationsSchema,
	})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return LocalRecommendations(investments)
	}

	var recs []string
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		g.fallback(ctx, op, reasonInvalid, err)
		return LocalRecommendations(investments)
	}
	recs = slices.DeleteFunc(recs, func(r string) bool { return strings.TrimSpace(r) == "" })
	if len(recs) == 0 {
		g.fallback(ctx, op, reasonInvalid, nil)
		return LocalRecommendations(investments)
	}
	return recs
}

// LocalRecommendations gives general advice plus a concentration warning
// when one holding dominates the portfolio.
func LocalRecommendations(investments []models.Investment) []string {
	recs := []string{}
	p := calculator.PortfolioSummary(investments)

	if len(investments) == 0 || p.Value <= 0 {
		recs = append(recs, "Start with a low-cost, broadly diversified index fund.")
	} else {
		for _, inv := range investments {
			if share := inv.Quantity * inv.CurrentPrice / p.Value; share > 0.5 {
				recs = append(recs, fmt.Sprintf("%s is %.0f%% of your portfolio; consider spreading that risk across more holdings.", inv.Name, share*100))
				break
			}
		}
		if p.MonthlyIncome == 0 {
			recs = append(recs, "None of your holdings pay income; dividend funds or bonds can add a steady cash flow.")
		}
	}

	return append(recs,
		"Keep three to six months of expenses in an emergency fund before investing more.",
		"Rebalance at least once a year to keep your target allocation.",
	)
}

var lessonSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"lesson":   {Type: TypeString, Description: "Markdown lesson, a few short paragraphs."},
		"question": {Type: TypeString},
		"options":  {Type: TypeArray, Items: &Schema{Type: TypeString}},
		"answer":   {Type: TypeString, Description: "Exactly one of options."},
	},
	Required: []string{"lesson", "question", "options", "answer"},
}

// GenerateLesson writes a lesson with a quiz question about topic.
func (g *Gateway) GenerateLesson(ctx context.Context, topic string) Lesson {
	const op = "lesson"
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return LocalLesson(topic)
	}

	out, err := g.generate(ctx, op, Request{
		Prompt: fmt.Sprintf(lessonPrompt, topic),
		Schema: lessonSchema,
	})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return LocalLesson(topic)
	}

	var lesson Lesson
	if err := json.Unmarshal([]byte(out), &lesson); err != nil {
		g.fallback(ctx, op, reasonInvalid, err)
		return LocalLesson(topic)
	}
	if lesson.Lesson == "" || lesson.Question == "" || !slices.Contains(lesson.Options, lesson.Answer) {
		g.fallback(ctx, op, reasonInvalid, errors.New("incomplete lesson"))
		return LocalLesson(topic)
	}
	return lesson
}

var builtinLessons = map[string]Lesson{
	"budgeting basics": {
		Lesson:   "A budget gives every unit of income a job. A common starting point is the **50/30/20 rule**: 50% for needs, 30% for wants and 20% for savings and debt repayment.\n\nTrack what you actually spend for a month, then adjust the split until it fits your life.",
		Question: "Under the 50/30/20 rule, what share of income goes to savings and debt repayment?",
		Options:  []string{"10%", "20%", "30%", "50%"},
		Answer:   "20%",
	},
	"understanding credit scores": {
		Lesson:   "A credit score summarizes how reliably you repay debt. **Payment history** and **credit utilization** (balances compared with limits) weigh the most.\n\nPaying on time and keeping utilization below about 30% are the two habits that help most.",
		Question: "Which habit helps a credit score the most?",
		Options:  []string{"Opening many new cards", "Paying bills on time", "Closing old accounts", "Checking your own score"},
		Answer:   "Paying bills on time",
	},
	"introduction to investing": {
		Lesson:   "Investing puts money to work so it can grow faster than inflation. **Diversification**, spreading money across many assets, lowers the risk that one bad investment hurts you.\n\nIndex funds offer broad diversification at low cost.",
		Question: "What does diversification reduce?",
		Options:  []string{"Taxes", "The risk of a single investment", "Fees", "Inflation"},
		Answer:   "The risk of a single investment",
	},
	"saving for retirement (401k/ira)": {
		Lesson:   "Retirement accounts such as a 401(k) or an IRA grow with tax advantages. If your employer **matches** contributions, contribute at least enough to get the full match.\n\nStarting early matters most because returns compound over decades.",
		Question: "Why contribute at least up to an employer match?",
		Options:  []string{"It is required by law", "It is free money added to your savings", "It lowers your salary", "It avoids all taxes"},
		Answer:   "It is free money added to your savings",
	},
	"managing debt": {
		Lesson:   "List your debts with their interest rates. The **avalanche** method pays extra on the highest rate first and costs the least; the **snowball** method pays the smallest balance first for quick wins.\n\nAlways make at least the minimum payment on every debt.",
		Question: "Which method pays off the highest interest rate first?",
		Options:  []string{"Snowball", "Avalanche", "Consolidation", "Minimum payment"},
		Answer:   "Avalanche",
	},
}

// LocalLesson returns a built-in lesson for the known topics and a budgeting
// lesson for anything else.
func LocalLesson(topic string) Lesson {
	key := strings.ToLower(strings.TrimSpace(topic))
	lesson, ok := builtinLessons[key]
	if !ok {
		lesson = builtinLessons["budgeting basics"]
	}
	lesson.Options = slices.Clone(lesson.Options)
	return lesson
}
