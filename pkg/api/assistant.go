package api

import "github.com/mmynk/smartfinance/internal/models"

type ChatRequest struct {
	Query string `json:"query"`
}

type ChatResponse struct {
	Text string `json:"text"`

	// Bill is the bill created from a scheduling request in the reply.
	Bill *models.Bill `json:"bill,omitempty"`
}

type SuggestExpensesRequest struct{}

type ExpenseSuggestion struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type SuggestExpensesResponse struct {
	Suggestions []ExpenseSuggestion `json:"suggestions"`
}

type ScanReceiptRequest struct {
	MimeType string `json:"mimeType"`
	Image    []byte `json:"image"`
}

type ScanReceiptResponse struct {
	Vendor   string  `json:"vendor"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
}

type CategorizeRequest struct {
	Description string `json:"description"`
}

type CategorizeResponse struct {
	Category string `json:"category"`
}

type GenerateReportRequest struct {
	Month string `json:"month"`
}

type GenerateReportResponse struct {
	Markdown string `json:"markdown"`
}

type ModerateRequest struct {
	Text string `json:"text"`
}

type ModerateResponse struct {
	Safe bool `json:"safe"`
}

type TaxTipsRequest struct {
	Month string `json:"month"`
}

type TaxTipsResponse struct {
	Markdown string `json:"markdown"`
}

type PurchaseAdviceRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type PurchaseAdviceResponse struct {
	Advantages    []string `json:"advantages"`
	Disadvantages []string `json:"disadvantages"`
}

type InvestmentRecommendationsRequest struct {
	// Goal defaults to "Build long-term wealth".
	Goal string `json:"goal"`
}

type InvestmentRecommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
}

type GenerateLessonRequest struct {
	Topic string `json:"topic"`
}

type GenerateLessonResponse struct {
	Lesson   string   `json:"lesson"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}
