package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/internal/ai"
	"github.com/mmynk/smartfinance/internal/calculator"
	"github.com/mmynk/smartfinance/internal/csvio"
	"github.com/mmynk/smartfinance/internal/entity"
	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/pkg/api"
	"github.com/mmynk/smartfinance/pkg/api/apiconnect"
)

// Ensure FinanceService implements the interface
var _ apiconnect.FinanceServiceHandler = (*FinanceService)(nil)

// FinanceService implements the FinanceService RPC interface on top of the
// entity managers.
type FinanceService struct {
	state   *entity.State
	gateway *ai.Gateway
	logger  *slog.Logger
	now     func() time.Time
}

// NewFinanceService creates a finance service. The gateway moderates forum
// posts before they are saved.
func NewFinanceService(state *entity.State, gateway *ai.Gateway, logger *slog.Logger) *FinanceService {
	return &FinanceService{state: state, gateway: gateway, logger: logger, now: time.Now}
}

func (s *FinanceService) saver(collection string) (entity.Saver, error) {
	sv, ok := s.state.Saver(collection)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %q", errUnknownCollection, collection))
	}
	return sv, nil
}

// ListEntities returns every record of a collection in insertion order.
func (s *FinanceService) ListEntities(ctx context.Context, req *connect.Request[api.ListEntitiesRequest]) (*connect.Response[api.ListEntitiesResponse], error) {
	sv, err := s.saver(req.Msg.Collection)
	if err != nil {
		return nil, err
	}
	items, err := sv.ListJSON()
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListEntitiesResponse{Items: items}), nil
}

// SaveEntity creates or updates one record. Forum posts are moderated first.
func (s *FinanceService) SaveEntity(ctx context.Context, req *connect.Request[api.SaveEntityRequest]) (*connect.Response[api.SaveEntityResponse], error) {
	sv, err := s.saver(req.Msg.Collection)
	if err != nil {
		return nil, err
	}

	if sv.Name() == models.CollectionForumPosts {
		if err := s.moderate(ctx, req.Msg.Item); err != nil {
			return nil, err
		}
	}

	item, err := sv.SaveJSON(ctx, req.Msg.Item)
	if err != nil {
		s.logger.Error("Failed to save entity", "collection", sv.Name(), "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SaveEntityResponse{Item: item}), nil
}

func (s *FinanceService) moderate(ctx context.Context, raw json.RawMessage) error {
	var post models.ForumPost
	if err := json.Unmarshal(raw, &post); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %v", entity.ErrInvalidRecord, err))
	}
	if s.gateway.Moderate(ctx, post.Title+"\n"+post.Content) == ai.VerdictUnsafe {
		s.logger.Info("Forum post rejected by moderation", "author", post.Author)
		return connect.NewError(connect.CodeInvalidArgument, errUnsafePost)
	}
	return nil
}

// DeleteEntity removes a record. Unknown IDs succeed.
func (s *FinanceService) DeleteEntity(ctx context.Context, req *connect.Request[api.DeleteEntityRequest]) (*connect.Response[api.DeleteEntityResponse], error) {
	sv, err := s.saver(req.Msg.Collection)
	if err != nil {
		return nil, err
	}
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingID)
	}
	if err := sv.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteEntityResponse{}), nil
}

// BulkReplace overwrites existing records in one transaction.
func (s *FinanceService) BulkReplace(ctx context.Context, req *connect.Request[api.BulkReplaceRequest]) (*connect.Response[api.BulkReplaceResponse], error) {
	sv, err := s.saver(req.Msg.Collection)
	if err != nil {
		return nil, err
	}
	if err := sv.BulkReplaceJSON(ctx, req.Msg.Items); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.BulkReplaceResponse{}), nil
}

// ApproveBills schedules, or declines, the given bills together.
func (s *FinanceService) ApproveBills(ctx context.Context, req *connect.Request[api.ApproveBillsRequest]) (*connect.Response[api.ApproveBillsResponse], error) {
	status := models.BillScheduled
	if req.Msg.Decline {
		status = models.BillDeclined
	}

	bills := make([]models.Bill, 0, len(req.Msg.IDs))
	for _, id := range req.Msg.IDs {
		bill, ok := s.state.Bills.Get(id)
		if !ok {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("bill %q not found", id))
		}
		bill.Status = status
		bills = append(bills, bill)
	}

	if err := s.state.Bills.BulkReplace(ctx, bills); err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("Bills updated", "count", len(bills), "status", status)
	return connect.NewResponse(&api.ApproveBillsResponse{Bills: bills}), nil
}

// CreateSplit divides a total evenly and stores the split expense.
func (s *FinanceService) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	if strings.TrimSpace(req.Msg.Description) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("description is required"))
	}
	participants, err := calculator.SplitEvenly(req.Msg.TotalAmount, req.Msg.Participants)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	date := req.Msg.Date
	if date == "" {
		date = s.now().Format(time.DateOnly)
	}
	split, err := s.state.SplitExpenses.Save(ctx, models.SplitExpense{
		Description:  req.Msg.Description,
		TotalAmount:  req.Msg.TotalAmount,
		Date:         date,
		Participants: participants,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateSplitResponse{Split: split}), nil
}

func (s *FinanceService) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error) {
	resp := &api.GetSettingsResponse{}
	if settings, ok := s.state.Settings(); ok {
		resp.Settings = &settings
	}
	return connect.NewResponse(resp), nil
}

func (s *FinanceService) SaveSettings(ctx context.Context, req *connect.Request[api.SaveSettingsRequest]) (*connect.Response[api.SaveSettingsResponse], error) {
	if err := s.state.SaveSettings(ctx, req.Msg.Settings); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SaveSettingsResponse{}), nil
}

func (s *FinanceService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	resp := &api.GetProfileResponse{}
	if profile, ok := s.state.Profile(); ok {
		resp.Profile = &profile
	}
	return connect.NewResponse(resp), nil
}

// SaveProfile completes onboarding or replaces the profile.
func (s *FinanceService) SaveProfile(ctx context.Context, req *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error) {
	if strings.TrimSpace(req.Msg.Profile.FullName) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("full name is required"))
	}
	if err := s.state.SaveProfile(ctx, req.Msg.Profile); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SaveProfileResponse{}), nil
}

// UpdateIncome changes the monthly income of an existing profile.
func (s *FinanceService) UpdateIncome(ctx context.Context, req *connect.Request[api.UpdateIncomeRequest]) (*connect.Response[api.UpdateIncomeResponse], error) {
	if req.Msg.MonthlyIncome < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("monthly income cannot be negative"))
	}
	updated, err := s.state.SetMonthlyIncome(ctx, req.Msg.MonthlyIncome)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateIncomeResponse{Updated: updated}), nil
}

// WipeData erases every collection and singleton. It requires Confirm.
func (s *FinanceService) WipeData(ctx context.Context, req *connect.Request[api.WipeDataRequest]) (*connect.Response[api.WipeDataResponse], error) {
	if !req.Msg.Confirm {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errConfirmRequired)
	}
	if err := s.state.Wipe(ctx); err != nil {
		s.logger.Error("Wipe failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.WipeDataResponse{}), nil
}

// ImportCSV parses transactions and saves the valid rows.
func (s *FinanceService) ImportCSV(ctx context.Context, req *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error) {
	result, err := csvio.Import(strings.NewReader(req.Msg.Data))
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	imported, err := s.state.Transactions.AddAll(ctx, result.Transactions)
	if err != nil {
		s.logger.Error("Import failed", "rows", len(result.Transactions), "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ImportCSVResponse{
		Imported: imported,
		Skipped:  make([]api.SkippedRow, 0, len(result.Skipped)),
	}
	for _, row := range result.Skipped {
		resp.Skipped = append(resp.Skipped, api.SkippedRow{Line: row.Line, Reason: row.Reason})
	}
	resp.Message = csvio.Summary(result)

	s.logger.Info("CSV imported", "imported", len(resp.Imported), "skipped", len(resp.Skipped))
	return connect.NewResponse(resp), nil
}

// ExportCSV renders every transaction as CSV.
func (s *FinanceService) ExportCSV(ctx context.Context, req *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	var buf bytes.Buffer
	if err := csvio.Export(&buf, s.state.Transactions.List()); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ExportCSVResponse{
		Filename: fmt.Sprintf("transactions-%s.csv", s.now().Format(time.DateOnly)),
		Data:     buf.String(),
	}), nil
}

// GetDashboard computes the derived figures shown on the dashboard.
func (s *FinanceService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	var income float64
	if profile, ok := s.state.Profile(); ok {
		income = profile.MonthlyIncome
	}

	resp := &api.GetDashboardResponse{
		Summary:     calculator.MonthlySummary(s.state.Transactions.List(), req.Msg.Month),
		Budget:      calculator.MonthlyBudget(income, s.state.RecurringExpenses.List()),
		NetWorth:    calculator.NetWorth(s.state.NetWorthItems()),
		BankBalance: calculator.BankBalance(s.state.LinkedAccounts.List()),
		Portfolio:   calculator.PortfolioSummary(s.state.Investments.List()),
		Splits:      calculator.SplitBalances(s.state.SplitExpenses.List()),
	}
	for _, g := range s.state.Goals.List() {
		resp.Goals = append(resp.Goals, api.GoalStatus{ID: g.ID, Name: g.Name, Progress: calculator.GoalProgress(g)})
	}
	for _, c := range s.state.Challenges.List() {
		resp.Challenges = append(resp.Challenges, api.GoalStatus{ID: c.ID, Name: c.Name, Progress: calculator.ChallengeProgress(c)})
	}
	return connect.NewResponse(resp), nil
}
