package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/internal/ai"
	"github.com/mmynk/smartfinance/internal/entity"
	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/internal/storage"
	"github.com/mmynk/smartfinance/internal/storage/sqlite"
	"github.com/mmynk/smartfinance/pkg/api"
)

func decodeTransactions(t *testing.T, items []json.RawMessage) []models.Transaction {
	t.Helper()
	out := make([]models.Transaction, 0, len(items))
	for _, raw := range items {
		var tx models.Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			t.Fatalf("failed to decode transaction: %v", err)
		}
		out = append(out, tx)
	}
	return out
}

func listTransactions(t *testing.T, env *testEnv) []models.Transaction {
	t.Helper()
	resp, err := env.finance.ListEntities(context.Background(), connect.NewRequest(&api.ListEntitiesRequest{
		Collection: models.CollectionTransactions,
	}))
	if err != nil {
		t.Fatalf("ListEntities failed: %v", err)
	}
	return decodeTransactions(t, resp.Msg.Items)
}

func TestEntityLifecycle(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	seeded := listTransactions(t, env)
	if len(seeded) != 12 {
		t.Fatalf("expected 12 seeded transactions, got %d", len(seeded))
	}

	// Create
	resp, err := env.finance.SaveEntity(ctx, connect.NewRequest(&api.SaveEntityRequest{
		Collection: models.CollectionTransactions,
		Item:       json.RawMessage(`{"date":"2026-07-20","description":"Coffee","amount":4.5,"category":"Food & Dining","type":"expense"}`),
	}))
	if err != nil {
		t.Fatalf("SaveEntity failed: %v", err)
	}
	var created models.Transaction
	if err := json.Unmarshal(resp.Msg.Item, &created); err != nil {
		t.Fatalf("failed to decode saved item: %v", err)
	}
	if !strings.HasPrefix(created.ID, "tra-") {
		t.Errorf("expected generated id, got %q", created.ID)
	}

	// Update keeps the position
	_, err = env.finance.SaveEntity(ctx, connect.NewRequest(&api.SaveEntityRequest{
		Collection: models.CollectionTransactions,
		Item:       json.RawMessage(`{"id":"1","date":"2026-07-15","description":"Netflix","amount":17.99,"category":"Subscriptions","type":"expense"}`),
	}))
	if err != nil {
		t.Fatalf("SaveEntity update failed: %v", err)
	}

	txs := listTransactions(t, env)
	if len(txs) != 13 {
		t.Fatalf("expected 13 transactions, got %d", len(txs))
	}
	if txs[0].ID != "1" || txs[0].Amount != 17.99 {
		t.Errorf("expected updated record first, got %+v", txs[0])
	}
	if txs[12].ID != created.ID {
		t.Errorf("expected new record last, got %q", txs[12].ID)
	}

	// Delete is idempotent
	for range 2 {
		if _, err := env.finance.DeleteEntity(ctx, connect.NewRequest(&api.DeleteEntityRequest{
			Collection: models.CollectionTransactions,
			ID:         created.ID,
		})); err != nil {
			t.Fatalf("DeleteEntity failed: %v", err)
		}
	}
	if got := len(listTransactions(t, env)); got != 12 {
		t.Errorf("expected 12 transactions after delete, got %d", got)
	}
}

func TestEntityValidation(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	t.Run("unknown collection", func(t *testing.T) {
		_, err := env.finance.ListEntities(ctx, connect.NewRequest(&api.ListEntitiesRequest{Collection: "groups"}))
		wantCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("malformed record", func(t *testing.T) {
		_, err := env.finance.SaveEntity(ctx, connect.NewRequest(&api.SaveEntityRequest{
			Collection: models.CollectionBills,
			Item:       json.RawMessage(`{"amount":"lots"}`),
		}))
		wantCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("bulk replace without id", func(t *testing.T) {
		_, err := env.finance.BulkReplace(ctx, connect.NewRequest(&api.BulkReplaceRequest{
			Collection: models.CollectionBills,
			Items:      []json.RawMessage{json.RawMessage(`{"name":"Water"}`)},
		}))
		wantCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("delete without id", func(t *testing.T) {
		_, err := env.finance.DeleteEntity(ctx, connect.NewRequest(&api.DeleteEntityRequest{Collection: models.CollectionBills}))
		wantCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestApproveBills(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	resp, err := env.finance.ApproveBills(ctx, connect.NewRequest(&api.ApproveBillsRequest{IDs: []string{"b2", "b4"}}))
	if err != nil {
		t.Fatalf("ApproveBills failed: %v", err)
	}
	if len(resp.Msg.Bills) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(resp.Msg.Bills))
	}
	for _, id := range []string{"b2", "b4"} {
		bill, _ := env.state.Bills.Get(id)
		if bill.Status != models.BillScheduled {
			t.Errorf("bill %s status = %q, want Scheduled", id, bill.Status)
		}
	}

	_, err = env.finance.ApproveBills(ctx, connect.NewRequest(&api.ApproveBillsRequest{IDs: []string{"b1", "nope"}}))
	wantCode(t, err, connect.CodeNotFound)
	if bill, _ := env.state.Bills.Get("b1"); bill.Status != models.BillPaid {
		t.Errorf("bill b1 changed by a rejected request: %q", bill.Status)
	}
}

func TestCreateSplit(t *testing.T) {
	env := setupTestServer(t, nil)

	resp, err := env.finance.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		Description:  "Cabin weekend",
		TotalAmount:  100,
		Date:         "2026-07-20",
		Participants: []string{"You", "Alex", "Casey"},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	split := resp.Msg.Split
	if split.ID == "" || len(split.Participants) != 3 {
		t.Fatalf("unexpected split %+v", split)
	}
	if split.Participants[0].Amount != 33.34 || split.Participants[2].Amount != 33.33 {
		t.Errorf("unexpected shares %+v", split.Participants)
	}
	if env.state.SplitExpenses.Len() != 2 {
		t.Errorf("expected the split to be stored next to the seeded one")
	}

	_, err = env.finance.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		Description: "Nobody", TotalAmount: 10,
	}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestProfileAndIncome(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	// No profile yet: the update is a no-op.
	resp, err := env.finance.UpdateIncome(ctx, connect.NewRequest(&api.UpdateIncomeRequest{MonthlyIncome: 5000}))
	if err != nil {
		t.Fatalf("UpdateIncome failed: %v", err)
	}
	if resp.Msg.Updated {
		t.Error("expected no update without a profile")
	}

	profile := models.UserProfile{FullName: "Ada Lovelace", Country: "GB", MonthlyIncome: 4000, FinancialGoal: "invest"}
	if _, err := env.finance.SaveProfile(ctx, connect.NewRequest(&api.SaveProfileRequest{Profile: profile})); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	resp, err = env.finance.UpdateIncome(ctx, connect.NewRequest(&api.UpdateIncomeRequest{MonthlyIncome: 5000}))
	if err != nil {
		t.Fatalf("UpdateIncome failed: %v", err)
	}
	if !resp.Msg.Updated {
		t.Error("expected the profile to be updated")
	}

	got, err := env.finance.GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{}))
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Msg.Profile == nil || got.Msg.Profile.MonthlyIncome != 5000 || got.Msg.Profile.FullName != "Ada Lovelace" {
		t.Errorf("unexpected profile %+v", got.Msg.Profile)
	}

	_, err = env.finance.SaveProfile(ctx, connect.NewRequest(&api.SaveProfileRequest{}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestSettings(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	resp, err := env.finance.GetSettings(ctx, connect.NewRequest(&api.GetSettingsRequest{}))
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if resp.Msg.Settings == nil || resp.Msg.Settings.Currency != "USD" {
		t.Fatalf("expected seeded settings, got %+v", resp.Msg.Settings)
	}

	updated := *resp.Msg.Settings
	updated.Theme = "light"
	if _, err := env.finance.SaveSettings(ctx, connect.NewRequest(&api.SaveSettingsRequest{Settings: updated})); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if got, _ := env.state.Settings(); got.Theme != "light" {
		t.Errorf("Theme = %q, want light", got.Theme)
	}
}

func TestWipeData(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	_, err := env.finance.WipeData(ctx, connect.NewRequest(&api.WipeDataRequest{}))
	wantCode(t, err, connect.CodeFailedPrecondition)
	if env.state.Transactions.Len() == 0 {
		t.Fatal("unconfirmed wipe removed data")
	}

	if _, err := env.finance.WipeData(ctx, connect.NewRequest(&api.WipeDataRequest{Confirm: true})); err != nil {
		t.Fatalf("WipeData failed: %v", err)
	}
	for _, name := range models.KeyedCollections {
		resp, err := env.finance.ListEntities(ctx, connect.NewRequest(&api.ListEntitiesRequest{Collection: name}))
		if err != nil {
			t.Fatalf("ListEntities(%s) failed: %v", name, err)
		}
		if len(resp.Msg.Items) != 0 {
			t.Errorf("%s still has %d items", name, len(resp.Msg.Items))
		}
	}
	settings, err := env.finance.GetSettings(ctx, connect.NewRequest(&api.GetSettingsRequest{}))
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.Msg.Settings != nil {
		t.Error("expected settings to be wiped")
	}
	if n, _ := env.store.Count(ctx, models.CollectionTransactions); n != 0 {
		t.Errorf("store still has %d transactions", n)
	}
}

func TestImportExportCSV(t *testing.T) {
	env := setupTestServer(t, nil)
	ctx := context.Background()

	data := "date,description,category,amount,type\n" +
		"2026-07-21,Bookshop,Shopping,23.50,expense\n" +
		"2026-07-22,Refund,,12,INCOME\n" +
		"2026-07-23,Broken row,Shopping,abc,expense\n"

	resp, err := env.finance.ImportCSV(ctx, connect.NewRequest(&api.ImportCSVRequest{Data: data}))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if len(resp.Msg.Imported) != 2 || len(resp.Msg.Skipped) != 1 {
		t.Fatalf("imported %d, skipped %d", len(resp.Msg.Imported), len(resp.Msg.Skipped))
	}
	if resp.Msg.Skipped[0].Line != 4 {
		t.Errorf("skipped line = %d, want 4", resp.Msg.Skipped[0].Line)
	}
	want := "Successfully imported 2 transactions from your CSV file. 1 rows were skipped."
	if resp.Msg.Message != want {
		t.Errorf("Message = %q, want %q", resp.Msg.Message, want)
	}
	refund := resp.Msg.Imported[1]
	if refund.ID == "" || refund.Type != models.TransactionIncome || refund.Category != "Uncategorized" {
		t.Errorf("unexpected refund %+v", refund)
	}
	if env.state.Transactions.Len() != 14 {
		t.Errorf("expected 14 transactions, got %d", env.state.Transactions.Len())
	}

	exported, err := env.finance.ExportCSV(ctx, connect.NewRequest(&api.ExportCSVRequest{}))
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(exported.Msg.Data), "\n")
	if len(lines) != 15 || lines[0] != "id,date,description,amount,category,type" {
		t.Fatalf("unexpected export header or size: %d lines", len(lines))
	}
	if !strings.Contains(exported.Msg.Data, `"Bookshop",23.50,Shopping,expense`) {
		t.Errorf("imported row missing from export:\n%s", exported.Msg.Data)
	}
	if !strings.HasSuffix(exported.Msg.Filename, ".csv") {
		t.Errorf("Filename = %q", exported.Msg.Filename)
	}
}

// addFailingStore fails the n-th Add made inside a batch once armed.
type addFailingStore struct {
	storage.Store
	failAt int
}

type addFailingBatch struct {
	storage.Batch
	failAt int
	adds   int
}

func (b *addFailingBatch) Add(collection, key string, value any) error {
	b.adds++
	if b.adds == b.failAt {
		return errors.New("disk full")
	}
	return b.Batch.Add(collection, key, value)
}

func (s *addFailingStore) Batch(ctx context.Context, fn func(storage.Batch) error) error {
	return s.Store.Batch(ctx, func(b storage.Batch) error {
		return fn(&addFailingBatch{Batch: b, failAt: s.failAt})
	})
}

func TestImportCSVIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	base, err := sqlite.New(filepath.Join(t.TempDir(), "import.db"), storage.DefaultSchema())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { base.Close() })

	store := &addFailingStore{Store: base}
	state := entity.NewState(store)
	if err := state.Load(ctx); err != nil {
		t.Fatalf("failed to load state: %v", err)
	}
	before, _ := base.Count(ctx, models.CollectionTransactions)

	store.failAt = 3
	svc := NewFinanceService(state, ai.NewGateway(nil), discardLogger())
	data := "date,description,category,amount,type\n" +
		"2026-07-21,Bookshop,Shopping,23.50,expense\n" +
		"2026-07-22,Cinema,Fun,12,expense\n" +
		"2026-07-23,Lunch,Food,9.80,expense\n" +
		"2026-07-24,Taxi,Transport,18,expense\n"

	_, err = svc.ImportCSV(ctx, connect.NewRequest(&api.ImportCSVRequest{Data: data}))
	wantCode(t, err, connect.CodeInternal)

	if n, _ := base.Count(ctx, models.CollectionTransactions); n != before {
		t.Errorf("stored transactions = %d after failed import, want %d", n, before)
	}
	if state.Transactions.Len() != before {
		t.Errorf("in-memory transactions = %d after failed import, want %d", state.Transactions.Len(), before)
	}
}

func TestGetDashboard(t *testing.T) {
	env := setupTestServer(t, nil)

	resp, err := env.finance.GetDashboard(context.Background(), connect.NewRequest(&api.GetDashboardRequest{Month: "2026-07"}))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	d := resp.Msg
	if d.Summary.Count != 12 || d.Summary.Income != 4250 || d.Summary.Expenses != 2713.93 {
		t.Errorf("unexpected summary %+v", d.Summary)
	}
	if d.Summary.ByCategory[0].Category != "Housing" {
		t.Errorf("largest category = %q, want Housing", d.Summary.ByCategory[0].Category)
	}
	if d.NetWorth.Net != d.NetWorth.Assets-d.NetWorth.Liabilities {
		t.Errorf("inconsistent net worth %+v", d.NetWorth)
	}
	if len(d.Challenges) != 2 {
		t.Errorf("expected 2 challenges, got %d", len(d.Challenges))
	}
	if d.Splits.OwedToYou != 40 {
		t.Errorf("OwedToYou = %v, want 40", d.Splits.OwedToYou)
	}
}

func TestForumModeration(t *testing.T) {
	post := json.RawMessage(`{"author":"ada","title":"Budget tips","content":"Track every coffee.","timestamp":"2026-07-20"}`)

	t.Run("unsafe post is rejected", func(t *testing.T) {
		gen := &scriptedGenerator{respond: func(req ai.Request) (string, error) {
			return `{"verdict":"unsafe"}`, nil
		}}
		env := setupTestServer(t, gen)
		before := env.state.ForumPosts.Len()

		_, err := env.finance.SaveEntity(context.Background(), connect.NewRequest(&api.SaveEntityRequest{
			Collection: models.CollectionForumPosts,
			Item:       post,
		}))
		wantCode(t, err, connect.CodeInvalidArgument)
		if env.state.ForumPosts.Len() != before {
			t.Error("rejected post was stored")
		}
	})

	t.Run("moderation outage lets posts through", func(t *testing.T) {
		gen := &scriptedGenerator{respond: func(req ai.Request) (string, error) {
			return "", errors.New("quota exceeded")
		}}
		env := setupTestServer(t, gen)

		if _, err := env.finance.SaveEntity(context.Background(), connect.NewRequest(&api.SaveEntityRequest{
			Collection: models.CollectionForumPosts,
			Item:       post,
		})); err != nil {
			t.Fatalf("SaveEntity failed: %v", err)
		}
		if n := gen.callCount(); n != 1 {
			t.Errorf("expected one moderation call, got %d", n)
		}
	})
}
