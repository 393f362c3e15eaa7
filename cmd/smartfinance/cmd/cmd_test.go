package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/smartfinance/internal/auth"
	"github.com/mmynk/smartfinance/internal/models"
)

// run executes the CLI with a config pointing at a database in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	configPath := filepath.Join(dir, "smartfinance.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		content := "storage:\n  path: " + filepath.Join(dir, "test.db") + "\nlog:\n  level: error\n"
		if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDataCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "seed")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(out, "Sample data written.") {
		t.Errorf("unexpected seed output %q", out)
	}

	out, err = run(t, dir, "seed")
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if !strings.Contains(out, "nothing to do") {
		t.Errorf("expected the second seed to be a no-op, got %q", out)
	}

	csvPath := filepath.Join(dir, "import.csv")
	data := "date,description,category,amount,type\n2026-07-30,Bakery,Food & Dining,6.40,expense\n2026-07-31,,Food,1,expense\n"
	if err := os.WriteFile(csvPath, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	out, err = run(t, dir, "import", csvPath)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Successfully imported 1 transactions from your CSV file. 1 rows were skipped.") {
		t.Errorf("unexpected import output %q", out)
	}

	exportPath := filepath.Join(dir, "export.csv")
	if _, err := run(t, dir, "export", exportPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	exported, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(exported)), "\n"); len(lines) != 14 {
		t.Errorf("expected header and 13 rows, got %d lines", len(lines))
	}

	if _, err := run(t, dir, "wipe"); err == nil {
		t.Error("expected wipe without --yes to fail")
	}
	if _, err := run(t, dir, "wipe", "--yes"); err != nil {
		t.Fatalf("wipe failed: %v", err)
	}
	t.Cleanup(func() { wipeConfirmed = false })

	if _, err := run(t, dir, "export", exportPath); err != nil {
		t.Fatalf("export after wipe failed: %v", err)
	}
	exported, _ = os.ReadFile(exportPath)
	// Loading an empty store seeds it again.
	if !strings.Contains(string(exported), "Netflix Subscription") {
		t.Errorf("expected the sample data after reseeding:\n%s", exported)
	}
}

func TestRequireLiveToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("auth disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		requireLiveToken(nil, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d", rec.Code)
		}
	})

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name   string
		query  string
		header string
		want   int
	}{
		{"valid token", "?token=" + token, "", http.StatusNoContent},
		{"missing token", "", "", http.StatusUnauthorized},
		{"bad token", "?token=nope", "", http.StatusUnauthorized},
		{"bearer header", "", "Bearer " + token, http.StatusNoContent},
		{"bad bearer header", "", "Bearer nope", http.StatusUnauthorized},
		{"header without bearer", "", "Basic " + token, http.StatusUnauthorized},
		{"header wins over query", "?token=" + token, "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/live"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			requireLiveToken(jwtManager, next).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestStaticHandler(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "index.html"), []byte("index"), 0o644)
	os.WriteFile(filepath.Join(dir, "app.js"), []byte("app"), 0o644)

	tests := []struct {
		path string
		want string
		code int
	}{
		{"/app.js", "app", http.StatusOK},
		{"/dashboard", "index", http.StatusOK},
		{"/smartfinance.v1.FinanceService/Nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		staticHandler(dir).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.code)
			continue
		}
		if tt.want != "" && rec.Body.String() != tt.want {
			t.Errorf("%s: body = %q, want %q", tt.path, rec.Body.String(), tt.want)
		}
	}
}
