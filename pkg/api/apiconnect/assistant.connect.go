package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/pkg/api"
)

// AssistantServiceName is the fully-qualified name of the AssistantService.
const AssistantServiceName = "smartfinance.v1.AssistantService"

// Procedure paths of the AssistantService.
const (
	AssistantServiceChatProcedure            = "/smartfinance.v1.AssistantService/Chat"
	AssistantServiceSuggestExpensesProcedure = "/smartfinance.v1.AssistantService/SuggestExpenses"
	AssistantServiceScanReceiptProcedure     = "/smartfinance.v1.AssistantService/ScanReceipt"
	AssistantServiceCategorizeProcedure      = "/smartfinance.v1.AssistantService/Categorize"
	AssistantServiceGenerateReportProcedure  = "/smartfinance.v1.AssistantService/GenerateReport"
	AssistantServiceModerateProcedure        = "/smartfinance.v1.AssistantService/Moderate"
	AssistantServiceTaxTipsProcedure         = "/smartfinance.v1.AssistantService/TaxTips"
	AssistantServicePurchaseAdviceProcedure  = "/smartfinance.v1.AssistantService/PurchaseAdvice"
	AssistantServiceRecommendProcedure       = "/smartfinance.v1.AssistantService/InvestmentRecommendations"
	AssistantServiceGenerateLessonProcedure  = "/smartfinance.v1.AssistantService/GenerateLesson"
)

// AssistantServiceHandler exposes the AI assistant. Every method answers with a
// deterministic fallback when the model is unavailable.
type AssistantServiceHandler interface {
	Chat(context.Context, *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error)
	SuggestExpenses(context.Context, *connect.Request[api.SuggestExpensesRequest]) (*connect.Response[api.SuggestExpensesResponse], error)
	ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error)
	Categorize(context.Context, *connect.Request[api.CategorizeRequest]) (*connect.Response[api.CategorizeResponse], error)
	GenerateReport(context.Context, *connect.Request[api.GenerateReportRequest]) (*connect.Response[api.GenerateReportResponse], error)
	Moderate(context.Context, *connect.Request[api.ModerateRequest]) (*connect.Response[api.ModerateResponse], error)
	TaxTips(context.Context, *connect.Request[api.TaxTipsRequest]) (*connect.Response[api.TaxTipsResponse], error)
	PurchaseAdvice(context.Context, *connect.Request[api.PurchaseAdviceRequest]) (*connect.Response[api.PurchaseAdviceResponse], error)
	InvestmentRecommendations(context.Context, *connect.Request[api.InvestmentRecommendationsRequest]) (*connect.Response[api.InvestmentRecommendationsResponse], error)
	GenerateLesson(context.Context, *connect.Request[api.GenerateLessonRequest]) (*connect.Response[api.GenerateLessonResponse], error)
}

// NewAssistantServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAssistantServiceHandler(svc AssistantServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AssistantServiceChatProcedure, connect.NewUnaryHandler(AssistantServiceChatProcedure, svc.Chat, opts...))
	mux.Handle(AssistantServiceSuggestExpensesProcedure, connect.NewUnaryHandler(AssistantServiceSuggestExpensesProcedure, svc.SuggestExpenses, opts...))
	mux.Handle(AssistantServiceScanReceiptProcedure, connect.NewUnaryHandler(AssistantServiceScanReceiptProcedure, svc.ScanReceipt, opts...))
	mux.Handle(AssistantServiceCategorizeProcedure, connect.NewUnaryHandler(AssistantServiceCategorizeProcedure, svc.Categorize, opts...))
	mux.Handle(AssistantServiceGenerateReportProcedure, connect.NewUnaryHandler(AssistantServiceGenerateReportProcedure, svc.GenerateReport, opts...))
	mux.Handle(AssistantServiceModerateProcedure, connect.NewUnaryHandler(AssistantServiceModerateProcedure, svc.Moderate, opts...))
	mux.Handle(AssistantServiceTaxTipsProcedure, connect.NewUnaryHandler(AssistantServiceTaxTipsProcedure, svc.TaxTips, opts...))
	mux.Handle(AssistantServicePurchaseAdviceProcedure, connect.NewUnaryHandler(AssistantServicePurchaseAdviceProcedure, svc.PurchaseAdvice, opts...))
	mux.Handle(AssistantServiceRecommendProcedure, connect.NewUnaryHandler(AssistantServiceRecommendProcedure, svc.InvestmentRecommendations, opts...))
	mux.Handle(AssistantServiceGenerateLessonProcedure, connect.NewUnaryHandler(AssistantServiceGenerateLessonProcedure, svc.GenerateLesson, opts...))
	return "/" + AssistantServiceName + "/", mux
}

// AssistantServiceClient is a client for the AssistantService.
type AssistantServiceClient interface {
	Chat(context.Context, *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error)
	SuggestExpenses(context.Context, *connect.Request[api.SuggestExpensesRequest]) (*connect.Response[api.SuggestExpensesResponse], error)
	ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error)
	Categorize(context.Context, *connect.Request[api.CategorizeRequest]) (*connect.Response[api.CategorizeResponse], error)
	GenerateReport(context.Context, *connect.Request[api.GenerateReportRequest]) (*connect.Response[api.GenerateReportResponse], error)
	Moderate(context.Context, *connect.Request[api.ModerateRequest]) (*connect.Response[api.ModerateResponse], error)
	TaxTips(context.Context, *connect.Request[api.TaxTipsRequest]) (*connect.Response[api.TaxTipsResponse], error)
	PurchaseAdvice(context.Context, *connect.Request[api.PurchaseAdviceRequest]) (*connect.Response[api.PurchaseAdviceResponse], error)
	InvestmentRecommendations(context.Context, *connect.Request[api.InvestmentRecommendationsRequest]) (*connect.Response[api.InvestmentRecommendationsResponse], error)
	GenerateLesson(context.Context, *connect.Request[api.GenerateLessonRequest]) (*connect.Response[api.GenerateLessonResponse], error)
}

type assistantServiceClient struct {
	chat            *connect.Client[api.ChatRequest, api.ChatResponse]
	suggestExpenses *connect.Client[api.SuggestExpensesRequest, api.SuggestExpensesResponse]
	scanReceipt     *connect.Client[api.ScanReceiptRequest, api.ScanReceiptResponse]
	categorize      *connect.Client[api.CategorizeRequest, api.CategorizeResponse]
	generateReport  *connect.Client[api.GenerateReportRequest, api.GenerateReportResponse]
	moderate        *connect.Client[api.ModerateRequest, api.ModerateResponse]
	taxTips         *connect.Client[api.TaxTipsRequest, api.TaxTipsResponse]
	purchaseAdvice  *connect.Client[api.PurchaseAdviceRequest, api.PurchaseAdviceResponse]
	recommend       *connect.Client[api.InvestmentRecommendationsRequest, api.InvestmentRecommendationsResponse]
	generateLesson  *connect.Client[api.GenerateLessonRequest, api.GenerateLessonResponse]
}

// NewAssistantServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewAssistantServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AssistantServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &assistantServiceClient{
		chat:            connect.NewClient[api.ChatRequest, api.ChatResponse](httpClient, baseURL+AssistantServiceChatProcedure, opts...),
		suggestExpenses: connect.NewClient[api.SuggestExpensesRequest, api.SuggestExpensesResponse](httpClient, baseURL+AssistantServiceSuggestExpensesProcedure, opts...),
		scanReceipt:     connect.NewClient[api.ScanReceiptRequest, api.ScanReceiptResponse](httpClient, baseURL+AssistantServiceScanReceiptProcedure, opts...),
		categorize:      connect.NewClient[api.CategorizeRequest, api.CategorizeResponse](httpClient, baseURL+AssistantServiceCategorizeProcedure, opts...),
		generateReport:  connect.NewClient[api.GenerateReportRequest, api.GenerateReportResponse](httpClient, baseURL+AssistantServiceGenerateReportProcedure, opts...),
		moderate:        connect.NewClient[api.ModerateRequest, api.ModerateResponse](httpClient, baseURL+AssistantServiceModerateProcedure, opts...),
		taxTips:         connect.NewClient[api.TaxTipsRequest, api.TaxTipsResponse](httpClient, baseURL+AssistantServiceTaxTipsProcedure, opts...),
		purchaseAdvice:  connect.NewClient[api.PurchaseAdviceRequest, api.PurchaseAdviceResponse](httpClient, baseURL+AssistantServicePurchaseAdviceProcedure, opts...),
		recommend:       connect.NewClient[api.InvestmentRecommendationsRequest, api.InvestmentRecommendationsResponse](httpClient, baseURL+AssistantServiceRecommendProcedure, opts...),
		generateLesson:  connect.NewClient[api.GenerateLessonRequest, api.GenerateLessonResponse](httpClient, baseURL+AssistantServiceGenerateLessonProcedure, opts...),
	}
}

func (c *assistantServiceClient) Chat(ctx context.Context, req *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error) {
	return c.chat.CallUnary(ctx, req)
}

func (c *assistantServiceClient) SuggestExpenses(ctx context.Context, req *connect.Request[api.SuggestExpensesRequest]) (*connect.Response[api.SuggestExpensesResponse], error) {
	return c.suggestExpenses.CallUnary(ctx, req)
}

func (c *assistantServiceClient) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	return c.scanReceipt.CallUnary(ctx, req)
}

func (c *assistantServiceClient) Categorize(ctx context.Context, req *connect.Request[api.CategorizeRequest]) (*connect.Response[api.CategorizeResponse], error) {
	return c.categorize.CallUnary(ctx, req)
}

func (c *assistantServiceClient) GenerateReport(ctx context.Context, req *connect.Request[api.GenerateReportRequest]) (*connect.Response[api.GenerateReportResponse], error) {
	return c.generateReport.CallUnary(ctx, req)
}

func (c *assistantServiceClient) Moderate(ctx context.Context, req *connect.Request[api.ModerateRequest]) (*connect.Response[api.ModerateResponse], error) {
	return c.moderate.CallUnary(ctx, req)
}

func (c *assistantServiceClient) TaxTips(ctx context.Context, req *connect.Request[api.TaxTipsRequest]) (*connect.Response[api.TaxTipsResponse], error) {
	return c.taxTips.CallUnary(ctx, req)
}

func (c *assistantServiceClient) PurchaseAdvice(ctx context.Context, req *connect.Request[api.PurchaseAdviceRequest]) (*connect.Response[api.PurchaseAdviceResponse], error) {
	return c.purchaseAdvice.CallUnary(ctx, req)
}

func (c *assistantServiceClient) InvestmentRecommendations(ctx context.Context, req *connect.Request[api.InvestmentRecommendationsRequest]) (*connect.Response[api.InvestmentRecommendationsResponse], error) {
	return c.recommend.CallUnary(ctx, req)
}

func (c *assistantServiceClient) GenerateLesson(ctx context.Context, req *connect.Request[api.GenerateLessonRequest]) (*connect.Response[api.GenerateLessonResponse], error) {
	return c.generateLesson.CallUnary(ctx, req)
}
