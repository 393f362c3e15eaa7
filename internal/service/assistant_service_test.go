package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/internal/ai"
	"github.com/mmynk/smartfinance/internal/calculator"
	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/pkg/api"
)

func TestChatSchedulesBill(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req ai.Request) (string, error) {
		if !strings.Contains(req.Prompt, "Whole Foods Market") {
			return "", errors.New("prompt is missing the transactions")
		}
		return `{"response":"Scheduled your water bill.","scheduleBillPayment":{"name":"Water","amount":45.5,"dueDate":"2026-08-20"}}`, nil
	}}
	env := setupTestServer(t, gen)
	before := env.state.Bills.Len()

	resp, err := env.assistant.Chat(context.Background(), connect.NewRequest(&api.ChatRequest{Query: "Pay my water bill of 45.50 on Aug 20"}))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Msg.Text != "Scheduled your water bill." {
		t.Errorf("Text = %q", resp.Msg.Text)
	}

	bill := resp.Msg.Bill
	if bill == nil {
		t.Fatal("expected a scheduled bill")
	}
	if bill.ID == "" || bill.Status != models.BillPendingApproval || bill.Amount != 45.5 {
		t.Errorf("unexpected bill %+v", bill)
	}
	if env.state.Bills.Len() != before+1 {
		t.Errorf("expected the bill to be stored")
	}
}

func TestChatWithoutCredential(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	resp, err := env.assistant.Chat(ctx, connect.NewRequest(&api.ChatRequest{Query: "How am I doing?"}))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Msg.Text != ai.UnconfiguredChatReply("How am I doing?") || resp.Msg.Bill != nil {
		t.Errorf("unexpected reply %+v", resp.Msg)
	}

	_, err = env.assistant.Chat(ctx, connect.NewRequest(&api.ChatRequest{Query: "  "}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestAssistantFallbacks(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	suggestions, err := env.assistant.SuggestExpenses(ctx, connect.NewRequest(&api.SuggestExpensesRequest{}))
	if err != nil {
		t.Fatalf("SuggestExpenses failed: %v", err)
	}
	if len(suggestions.Msg.Suggestions) != len(ai.DefaultExpenseSuggestions()) {
		t.Errorf("expected the default suggestions, got %+v", suggestions.Msg.Suggestions)
	}

	scan, err := env.assistant.ScanReceipt(ctx, connect.NewRequest(&api.ScanReceiptRequest{MimeType: "image/png", Image: []byte{1, 2, 3}}))
	if err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}
	if scan.Msg.Vendor != ai.UnknownVendor || scan.Msg.Amount != 0 || scan.Msg.Category != ai.DefaultCategory {
		t.Errorf("unexpected scan %+v", scan.Msg)
	}

	category, err := env.assistant.Categorize(ctx, connect.NewRequest(&api.CategorizeRequest{Description: "Uber ride"}))
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	if category.Msg.Category != ai.DefaultCategory {
		t.Errorf("Category = %q", category.Msg.Category)
	}

	moderation, err := env.assistant.Moderate(ctx, connect.NewRequest(&api.ModerateRequest{Text: "hello"}))
	if err != nil {
		t.Fatalf("Moderate failed: %v", err)
	}
	if !moderation.Msg.Safe {
		t.Error("expected fallback moderation to be safe")
	}
}

func TestGenerateReportFiltersMonth(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	resp, err := env.assistant.GenerateReport(ctx, connect.NewRequest(&api.GenerateReportRequest{Month: "2026-07"}))
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}
	if resp.Msg.Markdown != ai.LocalReport(env.state.Transactions.List()) {
		t.Errorf("unexpected report:\n%s", resp.Msg.Markdown)
	}

	empty, err := env.assistant.GenerateReport(ctx, connect.NewRequest(&api.GenerateReportRequest{Month: "1999-01"}))
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}
	if empty.Msg.Markdown != ai.LocalReport(nil) {
		t.Errorf("unexpected report for an empty month:\n%s", empty.Msg.Markdown)
	}
}

func TestAdviceFallbacks(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	tips, err := env.assistant.TaxTips(ctx, connect.NewRequest(&api.TaxTipsRequest{Month: "2026-07"}))
	if err != nil {
		t.Fatalf("TaxTips failed: %v", err)
	}
	expenses := calculator.MonthlySummary(env.state.Transactions.List(), "2026-07").ByCategory
	if tips.Msg.Markdown != ai.LocalTaxTips(expenses) {
		t.Errorf("unexpected tax tips:\n%s", tips.Msg.Markdown)
	}

	advice, err := env.assistant.PurchaseAdvice(ctx, connect.NewRequest(&api.PurchaseAdviceRequest{Description: "New laptop", Amount: 1500}))
	if err != nil {
		t.Fatalf("PurchaseAdvice failed: %v", err)
	}
	profile, _ := env.state.Profile()
	want := ai.LocalPurchaseAdvice(ai.PurchaseContext{
		MonthlyIncome:     profile.MonthlyIncome,
		BankBalance:       calculator.BankBalance(env.state.LinkedAccounts.List()),
		RecurringExpenses: env.state.RecurringExpenses.List(),
		Goals:             env.state.Goals.List(),
	}, ai.Purchase{Description: "New laptop", Amount: 1500})
	if !slices.Equal(advice.Msg.Advantages, want.Advantages) || !slices.Equal(advice.Msg.Disadvantages, want.Disadvantages) {
		t.Errorf("PurchaseAdvice() = %+v, want %+v", advice.Msg, want)
	}

	recs, err := env.assistant.InvestmentRecommendations(ctx, connect.NewRequest(&api.InvestmentRecommendationsRequest{}))
	if err != nil {
		t.Fatalf("InvestmentRecommendations failed: %v", err)
	}
	if !slices.Equal(recs.Msg.Recommendations, ai.LocalRecommendations(env.state.Investments.List())) {
		t.Errorf("unexpected recommendations %q", recs.Msg.Recommendations)
	}

	lesson, err := env.assistant.GenerateLesson(ctx, connect.NewRequest(&api.GenerateLessonRequest{Topic: "Understanding Credit Scores"}))
	if err != nil {
		t.Fatalf("GenerateLesson failed: %v", err)
	}
	if lesson.Msg.Answer != "Paying bills on time" || !slices.Contains(lesson.Msg.Options, lesson.Msg.Answer) {
		t.Errorf("unexpected lesson %+v", lesson.Msg)
	}
}

func TestAdviceRejectsIncompleteRequests(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	_, err := env.assistant.PurchaseAdvice(ctx, connect.NewRequest(&api.PurchaseAdviceRequest{Description: " ", Amount: 10}))
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = env.assistant.PurchaseAdvice(ctx, connect.NewRequest(&api.PurchaseAdviceRequest{Description: "Bike", Amount: 0}))
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = env.assistant.GenerateLesson(ctx, connect.NewRequest(&api.GenerateLessonRequest{}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestPurchaseAdviceSendsFinancesToModel(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req ai.Request) (string, error) {
		if !strings.Contains(req.Prompt, `"Bike" for 300.00`) {
			return "", errors.New("prompt is missing the purchase")
		}
		return `{"advantages":["Cheaper commute"],"disadvantages":["Delays your goals"]}`, nil
	}}
	env := setupTestServer(t, gen)

	resp, err := env.assistant.PurchaseAdvice(context.Background(), connect.NewRequest(&api.PurchaseAdviceRequest{Description: "Bike", Amount: 300}))
	if err != nil {
		t.Fatalf("PurchaseAdvice failed: %v", err)
	}
	if !slices.Equal(resp.Msg.Advantages, []string{"Cheaper commute"}) || !slices.Equal(resp.Msg.Disadvantages, []string{"Delays your goals"}) {
		t.Errorf("unexpected advice %+v", resp.Msg)
	}
}
