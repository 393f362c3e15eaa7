package api

import (
	"encoding/json"

	"github.com/mmynk/smartfinance/internal/calculator"
	"github.com/mmynk/smartfinance/internal/models"
)

type ListEntitiesRequest struct {
	Collection string `json:"collection"`
}

type ListEntitiesResponse struct {
	Items []json.RawMessage `json:"items"`
}

// SaveEntityRequest creates a record when Item has no id and upserts it
// otherwise.
type SaveEntityRequest struct {
	Collection string          `json:"collection"`
	Item       json.RawMessage `json:"item"`
}

type SaveEntityResponse struct {
	// Item is the stored record, including its assigned id.
	Item json.RawMessage `json:"item"`
}

type DeleteEntityRequest struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

type DeleteEntityResponse struct{}

// BulkReplaceRequest overwrites many existing records in one transaction.
type BulkReplaceRequest struct {
	Collection string            `json:"collection"`
	Items      []json.RawMessage `json:"items"`
}

type BulkReplaceResponse struct{}

// ApproveBillsRequest moves bills to Scheduled, or to Declined when Decline
// is set.
type ApproveBillsRequest struct {
	IDs     []string `json:"ids"`
	Decline bool     `json:"decline,omitempty"`
}

type ApproveBillsResponse struct {
	Bills []models.Bill `json:"bills"`
}

type CreateSplitRequest struct {
	Description  string   `json:"description"`
	TotalAmount  float64  `json:"totalAmount"`
	Date         string   `json:"date"`
	Participants []string `json:"participants"`
}

type CreateSplitResponse struct {
	Split models.SplitExpense `json:"split"`
}

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	Settings *models.Settings `json:"settings"`
}

type SaveSettingsRequest struct {
	Settings models.Settings `json:"settings"`
}

type SaveSettingsResponse struct{}

type GetProfileRequest struct{}

type GetProfileResponse struct {
	// Profile is nil until onboarding completed.
	Profile *models.UserProfile `json:"profile"`
}

type SaveProfileRequest struct {
	Profile models.UserProfile `json:"profile"`
}

type SaveProfileResponse struct{}

type UpdateIncomeRequest struct {
	MonthlyIncome float64 `json:"monthlyIncome"`
}

type UpdateIncomeResponse struct {
	// Updated is false when there is no profile to update.
	Updated bool `json:"updated"`
}

type WipeDataRequest struct {
	Confirm bool `json:"confirm"`
}

type WipeDataResponse struct{}

type ImportCSVRequest struct {
	Data string `json:"data"`
}

type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportCSVResponse struct {
	Imported []models.Transaction `json:"imported"`
	Skipped  []SkippedRow         `json:"skipped"`
	Message  string               `json:"message"`
}

type ExportCSVRequest struct{}

type ExportCSVResponse struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// GetDashboardRequest selects the month ("YYYY-MM") of the spending summary.
// An empty month covers every transaction.
type GetDashboardRequest struct {
	Month string `json:"month"`
}

type GoalStatus struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Progress calculator.Progress `json:"progress"`
}

type GetDashboardResponse struct {
	Summary     calculator.Summary         `json:"summary"`
	Budget      calculator.Budget          `json:"budget"`
	NetWorth    calculator.NetWorthSummary `json:"netWorth"`
	BankBalance float64                    `json:"bankBalance"`
	Portfolio   calculator.Portfolio       `json:"portfolio"`
	Splits      calculator.SplitBalance    `json:"splits"`
	Goals       []GoalStatus               `json:"goals"`
	Challenges  []GoalStatus               `json:"challenges"`
}
