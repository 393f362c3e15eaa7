package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/smartfinance/internal/calculator"
	"github.com/mmynk/smartfinance/internal/live"
	"github.com/mmynk/smartfinance/internal/metrics"
	"github.com/mmynk/smartfinance/internal/models"
)

// Fallback answers.
const (
	ChatErrorReply  = "I'm sorry, but I'm having trouble connecting to my analytical services right now. Please try again in a moment."
	UnknownVendor   = "Unknown Vendor"
	DefaultCategory = "Other"
)

// Fallback reasons reported in metrics.
const (
	reasonUnconfigured = "unconfigured"
	reasonError        = "error"
	reasonInvalid      = "invalid_response"
)

// Verdict is the moderation classification of a text.
type Verdict string

const (
	VerdictSafe   Verdict = "safe"
	VerdictUnsafe Verdict = "unsafe"
)

// FinancialContext is the data the assistant may reason about.
type FinancialContext struct {
	Transactions []models.Transaction
	Bills        []models.Bill
}

// ScheduleBillPayment is a structured request, returned with a chat reply,
// to create a bill awaiting approval.
type ScheduleBillPayment struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	DueDate string  `json:"dueDate"`
}

// Bill converts the action into a bill pending approval.
func (s ScheduleBillPayment) Bill() models.Bill {
	return models.Bill{
		Name:    s.Name,
		Amount:  s.Amount,
		DueDate: s.DueDate,
		Type:    models.BillTypeBill,
		Status:  models.BillPendingApproval,
	}
}

// ChatReply is the assistant's answer to a query.
type ChatReply struct {
	Text   string               `json:"text"`
	Action *ScheduleBillPayment `json:"action,omitempty"`
}

// ExpenseSuggestion is a recurring expense proposed during onboarding.
type ExpenseSuggestion struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ReceiptScan is the data read off a receipt image.
type ReceiptScan struct {
	Vendor   string  `json:"vendor"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
}

// DefaultExpenseSuggestions are offered when no credential is configured.
func DefaultExpenseSuggestions() []ExpenseSuggestion {
	return []ExpenseSuggestion{
		{Name: "Rent or Mortgage", Category: "Housing"},
		{Name: "Electricity Bill", Category: "Utilities"},
		{Name: "Internet Bill", Category: "Utilities"},
		{Name: "Groceries", Category: "Groceries"},
		{Name: "Phone Bill", Category: "Subscriptions"},
	}
}

// UnconfiguredChatReply is the chat answer used when no credential is set.
func UnconfiguredChatReply(query string) string {
	return fmt.Sprintf(`**API Key Not Configured**

Hello! It looks like the connection to my core AI brain isn't set up right now.

You asked: *"%s"*

While I can't give you a live analysis, here are some general tips:
- **Review your spending:** Check your top categories. Are you happy with where your money is going?
- **Check your budget:** Make sure you're on track with your monthly budgets.
- **Contribute to goals:** Even small amounts saved regularly can make a big difference!

Please configure the API key to unlock my full analytical capabilities.`, query)
}

// Gateway exposes the assistant operations. A nil Generator means no
// credential is configured; every operation then returns its fallback.
type Gateway struct {
	gen  Generator
	live live.Transport
	now  func() time.Time
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithLiveTransport sets the streaming audio endpoint.
func WithLiveTransport(t live.Transport) Option {
	return func(g *Gateway) { g.live = t }
}

// WithClock overrides the clock used for fallback dates.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway wraps gen, which may be nil.
func NewGateway(gen Generator, opts ...Option) *Gateway {
	g := &Gateway{gen: gen, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if gen == nil {
		slog.Warn("Gemini API key not found. Using fallback responses.")
	}
	return g
}

// Configured reports whether a remote model is available.
func (g *Gateway) Configured() bool {
	return g.gen != nil
}

// LiveTransport returns the streaming audio endpoint, or nil when none is
// configured.
func (g *Gateway) LiveTransport() live.Transport {
	return g.live
}

func (g *Gateway) generate(ctx context.Context, op string, req Request) (string, error) {
	metrics.AIRequests.WithLabelValues(op).Inc()
	if req.SystemPrompt == "" {
		req.SystemPrompt = assistantPersona
	}
	return g.gen.Generate(ctx, req)
}

func (g *Gateway) fallback(ctx context.Context, op, reason string, err error) {
	metrics.AIFallbacks.WithLabelValues(op, reason).Inc()
	if err != nil {
		slog.WarnContext(ctx, "AI call failed, using fallback", "operation", op, "reason", reason, "error", err)
		return
	}
	slog.DebugContext(ctx, "Using AI fallback", "operation", op, "reason", reason)
}

var chatSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"response": {Type: TypeString, Description: "Markdown answer to the user."},
		"scheduleBillPayment": {
			Type:        TypeObject,
			Description: "Set only when the user asked to schedule a bill payment.",
			Properties: map[string]*Schema{
				"name":    {Type: TypeString},
				"amount":  {Type: TypeNumber},
				"dueDate": {Type: TypeString},
			},
			Required: []string{"name", "amount", "dueDate"},
		},
	},
	Required: []string{"response"},
}

// Chat answers a free-text question about the user's finances.
func (g *Gateway) Chat(ctx context.Context, query string, fc FinancialContext) ChatReply {
	const op = "chat"
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return ChatReply{Text: UnconfiguredChatReply(query)}
	}

	out, err := g.generate(ctx, op, Request{
		Prompt: fmt.Sprintf(chatPrompt, formatTransactions(fc.Transactions), formatBills(fc.Bills), query),
		Schema: chatSchema,
	})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return ChatReply{Text: ChatErrorReply}
	}

	var parsed struct {
		Response            string               `json:"response"`
		ScheduleBillPayment *ScheduleBillPayment `json:"scheduleBillPayment"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil || parsed.Response == "" {
		// Plain text answers are still useful.
		return ChatReply{Text: strings.TrimSpace(out)}
	}

	reply := ChatReply{Text: parsed.Response}
	if a := parsed.ScheduleBillPayment; a != nil && a.Name != "" && a.Amount > 0 {
		reply.Action = a
	}
	return reply
}

var suggestionsSchema = &Schema{
	Type: TypeArray,
	Items: &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"name":     {Type: TypeString, Description: "The name of the recurring expense, e.g. 'Rent'."},
			"category": {Type: TypeString, Enum: models.RecurringExpenseCategories},
		},
		Required: []string{"name", "category"},
	},
}

// SuggestRecurringExpenses proposes likely recurring expenses for a profile.
func (g *Gateway) SuggestRecurringExpenses(ctx context.Context, profile models.UserProfile) []ExpenseSuggestion {
	const op = "suggest_expenses"
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return DefaultExpenseSuggestions()
	}

	out, err := g.generate(ctx, op, Request{
		Prompt: fmt.Sprintf(suggestPrompt,
			profile.Country,
			strconv.FormatFloat(profile.MonthlyIncome, 'f', -1, 64),
			profile.ReadableGoal(),
			strings.Join(models.RecurringExpenseCategories, ", "),
		),
		Schema: suggestionsSchema,
	})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return []ExpenseSuggestion{}
	}

	var parsed []ExpenseSuggestion
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		g.fallback(ctx, op, reasonInvalid, err)
		return []ExpenseSuggestion{}
	}
	suggestions := make([]ExpenseSuggestion, 0, len(parsed))
	for _, s := range parsed {
		if s.Name != "" && s.Category != "" {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}

var receiptSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"vendor":   {Type: TypeString},
		"amount":   {Type: TypeNumber},
		"date":     {Type: TypeString, Description: "YYYY-MM-DD"},
		"category": {Type: TypeString},
	},
	Required: []string{"vendor", "amount", "date", "category"},
}

// ScanReceipt reads vendor, total, date and category from a receipt image.
func (g *Gateway) ScanReceipt(ctx context.Context, image []byte, mimeType string) ReceiptScan {
	const op = "scan_receipt"
	fallback := ReceiptScan{
		Vendor:   UnknownVendor,
		Date:     g.now().Format("2006-01-02"),
		Category: DefaultCategory,
	}
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return fallback
	}
	if len(image) == 0 {
		g.fallback(ctx, op, reasonInvalid, fmt.Errorf("empty image"))
		return fallback
	}

	out, err := g.generate(ctx, op, Request{
		Prompt: receiptPrompt,
		Schema: receiptSchema,
		Image:  &InlineData{MimeType: mimeType, Data: image},
	})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return fallback
	}

	var scan ReceiptScan
	if err := json.Unmarshal([]byte(out), &scan); err != nil {
		g.fallback(ctx, op, reasonInvalid, err)
		return fallback
	}
	if scan.Vendor == "" {
		scan.Vendor = fallback.Vendor
	}
	if scan.Date == "" {
		scan.Date = fallback.Date
	}
	if scan.Category == "" {
		scan.Category = fallback.Category
	}
	return scan
}

var moderationSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"verdict": {Type: TypeString, Enum: []string{string(VerdictSafe), string(VerdictUnsafe)}},
	},
	Required: []string{"verdict"},
}

// Moderate classifies user-generated text. Anything but a clear "unsafe"
// from the model counts as safe.
func (g *Gateway) Moderate(ctx context.Context, text string) Verdict {
	const op = "moderate"
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return VerdictSafe
	}
	if strings.TrimSpace(text) == "" {
		return VerdictSafe
	}

	out, err := g.generate(ctx, op, Request{
		Prompt: fmt.Sprintf(moderationPrompt, text),
		Schema: moderationSchema,
	})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return VerdictSafe
	}

	var parsed struct {
		Verdict Verdict `json:"verdict"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		g.fallback(ctx, op, reasonInvalid, err)
		return VerdictSafe
	}
	if parsed.Verdict == VerdictUnsafe {
		return VerdictUnsafe
	}
	return VerdictSafe
}

// CategorizeTransaction suggests a category for a transaction description.
func (g *Gateway) CategorizeTransaction(ctx context.Context, description string) string {
	const op = "categorize"
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return DefaultCategory
	}

	out, err := g.generate(ctx, op, Request{Prompt: fmt.Sprintf(categorizePrompt, description)})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return DefaultCategory
	}

	category := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
	category = strings.Trim(category, "*\"'. ")
	if category == "" || len(category) > 40 {
		g.fallback(ctx, op, reasonInvalid, fmt.Errorf("unusable category %q", out))
		return DefaultCategory
	}
	return category
}

// GenerateReport writes a markdown report for the transactions. Without a
// model the report is computed locally.
func (g *Gateway) GenerateReport(ctx context.Context, txs []models.Transaction) string {
	const op = "report"
	if g.gen == nil {
		g.fallback(ctx, op, reasonUnconfigured, nil)
		return LocalReport(txs)
	}

	out, err := g.generate(ctx, op, Request{Prompt: fmt.Sprintf(reportPrompt, formatTransactions(txs))})
	if err != nil {
		g.fallback(ctx, op, reasonError, err)
		return LocalReport(txs)
	}
	return out
}

// LocalReport summarizes transactions without a model.
func LocalReport(txs []models.Transaction) string {
	s := calculator.MonthlySummary(txs, "")

	var sb strings.Builder
	sb.WriteString("**Financial Report**\n\n")
	fmt.Fprintf(&sb, "- **Transactions:** %d\n", s.Count)
	fmt.Fprintf(&sb, "- **Total income:** %.2f\n", s.Income)
	fmt.Fprintf(&sb, "- **Total expenses:** %.2f\n", s.Expenses)
	fmt.Fprintf(&sb, "- **Net:** %.2f\n", s.Net)

	if len(s.ByCategory) > 0 {
		sb.WriteString("\n**Top spending categories**\n\n")
		for i, c := range s.ByCategory {
			if i == 5 {
				break
			}
			fmt.Fprintf(&sb, "%d. %s: %.2f\n", i+1, c.Category, c.Amount)
		}
	}
	return sb.String()
}
