package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/internal/ai"
	"github.com/mmynk/smartfinance/internal/calculator"
	"github.com/mmynk/smartfinance/internal/entity"
	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/pkg/api"
	"github.com/mmynk/smartfinance/pkg/api/apiconnect"
)

// Ensure AssistantService implements the interface
var _ apiconnect.AssistantServiceHandler = (*AssistantService)(nil)

// AssistantService exposes the AI gateway over RPC. It never fails because
// the model is unavailable: the gateway answers with its fallbacks.
type AssistantService struct {
	state   *entity.State
	gateway *ai.Gateway
	logger  *slog.Logger
}

func NewAssistantService(state *entity.State, gateway *ai.Gateway, logger *slog.Logger) *AssistantService {
	return &AssistantService{state: state, gateway: gateway, logger: logger}
}

// Chat answers a question about the user's finances. A bill scheduling
// request in the reply is saved as a bill pending approval.
func (s *AssistantService) Chat(ctx context.Context, req *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error) {
	query := strings.TrimSpace(req.Msg.Query)
	if query == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errEmptyQuery)
	}

	reply := s.gateway.Chat(ctx, query, ai.FinancialContext{
		Transactions: s.state.Transactions.List(),
		Bills:        s.state.Bills.List(),
	})
	resp := &api.ChatResponse{Text: reply.Text}

	if reply.Action != nil {
		bill, err := s.state.Bills.Save(ctx, reply.Action.Bill())
		if err != nil {
			s.logger.Error("Failed to schedule bill from chat", "name", reply.Action.Name, "error", err)
			return nil, toConnectError(err)
		}
		s.logger.Info("Bill scheduled from chat", "id", bill.ID, "name", bill.Name, "amount", bill.Amount)
		resp.Bill = &bill
	}
	return connect.NewResponse(resp), nil
}

// SuggestExpenses proposes recurring expenses for the onboarding profile.
func (s *AssistantService) SuggestExpenses(ctx context.Context, req *connect.Request[api.SuggestExpensesRequest]) (*connect.Response[api.SuggestExpensesResponse], error) {
	profile, _ := s.state.Profile()
	suggestions := s.gateway.SuggestRecurringExpenses(ctx, profile)

	resp := &api.SuggestExpensesResponse{Suggestions: make([]api.ExpenseSuggestion, 0, len(suggestions))}
	for _, sg := range suggestions {
		resp.Suggestions = append(resp.Suggestions, api.ExpenseSuggestion{Name: sg.Name, Category: sg.Category})
	}
	return connect.NewResponse(resp), nil
}

// ScanReceipt extracts vendor, amount, date and category from an image.
func (s *AssistantService) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	scan := s.gateway.ScanReceipt(ctx, req.Msg.Image, req.Msg.MimeType)
	return connect.NewResponse(&api.ScanReceiptResponse{
		Vendor:   scan.Vendor,
		Amount:   scan.Amount,
		Date:     scan.Date,
		Category: scan.Category,
	}), nil
}

func (s *AssistantService) Categorize(ctx context.Context, req *connect.Request[api.CategorizeRequest]) (*connect.Response[api.CategorizeResponse], error) {
	return connect.NewResponse(&api.CategorizeResponse{
		Category: s.gateway.CategorizeTransaction(ctx, req.Msg.Description),
	}), nil
}

// GenerateReport writes a markdown report over the month's transactions, or
// over all of them when no month is given.
func (s *AssistantService) GenerateReport(ctx context.Context, req *connect.Request[api.GenerateReportRequest]) (*connect.Response[api.GenerateReportResponse], error) {
	txs := s.state.Transactions.List()
	if req.Msg.Month != "" {
		filtered := make([]models.Transaction, 0, len(txs))
		for _, tx := range txs {
			if strings.HasPrefix(tx.Date, req.Msg.Month) {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}
	return connect.NewResponse(&api.GenerateReportResponse{
		Markdown: s.gateway.GenerateReport(ctx, txs),
	}), nil
}

func (s *AssistantService) Moderate(ctx context.Context, req *connect.Request[api.ModerateRequest]) (*connect.Response[api.ModerateResponse], error) {
	return connect.NewResponse(&api.ModerateResponse{
		Safe: s.gateway.Moderate(ctx, req.Msg.Text) == ai.VerdictSafe,
	}), nil
}

// TaxTips suggests deductions for the month's expenses, or for all expenses
// when no month is given.
func (s *AssistantService) TaxTips(ctx context.Context, req *connect.Request[api.TaxTipsRequest]) (*connect.Response[api.TaxTipsResponse], error) {
	summary := calculator.MonthlySummary(s.state.Transactions.List(), req.Msg.Month)
	return connect.NewResponse(&api.TaxTipsResponse{
		Markdown: s.gateway.TaxTips(ctx, summary.ByCategory),
	}), nil
}

// PurchaseAdvice weighs a planned purchase against income, balance,
// recurring costs and savings goals.
func (s *AssistantService) PurchaseAdvice(ctx context.Context, req *connect.Request[api.PurchaseAdviceRequest]) (*connect.Response[api.PurchaseAdviceResponse], error) {
	description := strings.TrimSpace(req.Msg.Description)
	if description == "" || req.Msg.Amount <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidPurchase)
	}

	profile, _ := s.state.Profile()
	advice := s.gateway.PrePurchaseAdvice(ctx, ai.PurchaseContext{
		MonthlyIncome:     profile.MonthlyIncome,
		BankBalance:       calculator.BankBalance(s.state.LinkedAccounts.List()),
		RecurringExpenses: s.state.RecurringExpenses.List(),
		Goals:             s.state.Goals.List(),
		Transactions:      s.state.Transactions.List(),
	}, ai.Purchase{Description: description, Amount: req.Msg.Amount})

	return connect.NewResponse(&api.PurchaseAdviceResponse{
		Advantages:    advice.Advantages,
		Disadvantages: advice.Disadvantages,
	}), nil
}

func (s *AssistantService) InvestmentRecommendations(ctx context.Context, req *connect.Request[api.InvestmentRecommendationsRequest]) (*connect.Response[api.InvestmentRecommendationsResponse], error) {
	recs := s.gateway.InvestmentRecommendations(ctx, s.state.Investments.List(), strings.TrimSpace(req.Msg.Goal))
	return connect.NewResponse(&api.InvestmentRecommendationsResponse{Recommendations: recs}), nil
}

// GenerateLesson writes a lesson and quiz question on the topic.
func (s *AssistantService) GenerateLesson(ctx context.Context, req *connect.Request[api.GenerateLessonRequest]) (*connect.Response[api.GenerateLessonResponse], error) {
	topic := strings.TrimSpace(req.Msg.Topic)
	if topic == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errEmptyTopic)
	}

	lesson := s.gateway.GenerateLesson(ctx, topic)
	return connect.NewResponse(&api.GenerateLessonResponse{
		Lesson:   lesson.Lesson,
		Question: lesson.Question,
		Options:  lesson.Options,
		Answer:   lesson.Answer,
	}), nil
}
