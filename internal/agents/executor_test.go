package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gigpaisa/internal/models"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type fakeLister struct {
	history []*models.Transaction
}

func (l *fakeLister) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	return l.history, nil
}

type recordingStore struct {
	mu      sync.Mutex
	results map[string][]byte
	runs    []*models.AgentRun
}

func newRecordingStore() *recordingStore {
	return &recordingStore{results: make(map[string][]byte)}
}

func (s *recordingStore) InsertResult(ctx context.Context, table string, userID uuid.UUID, agent string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[table] = payload
	return nil
}

func (s *recordingStore) LogRun(ctx context.Context, run *models.AgentRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func amountPtr(v float64) *float64 { return &v }

func sampleHistory() []*models.Transaction {
	return []*models.Transaction{
		{
			TransactionDate: "2025-03-14",
			TransactionTime: "09:26",
			TransactionType: "income",
			Category:        "Delivery",
			Amount:          amountPtr(2000),
			MerchantName:    "Uber",
		},
		{
			TransactionDate: "2025-03-13",
			TransactionTime: "20:15",
			TransactionType: "expense",
			Category:        "Fuel",
			Amount:          amountPtr(300),
			PaymentMethod:   "UPI",
		},
	}
}

func newTestExecutor(t *testing.T, gen Generator, store ResultStore) *Executor {
	t.Helper()
	e, err := NewExecutor(gen, &fakeLister{history: sampleHistory()}, store, Specs(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	return e
}

func TestSpecsTableMapping(t *testing.T) {
	want := map[string]string{
		"pattern":        "income_patterns",
		"budget":         "budgets",
		"context":        "context_signals",
		"volatility":     "income_forecasts",
		"knowledge":      "user_schemes",
		"tax":            "tax_records",
		"recommendation": "recommendations",
		"risk":           "risk_assessments",
		"action":         "executed_actions",
	}

	specs := Specs()
	if len(specs) != len(want) {
		t.Fatalf("got %d specs, want %d", len(specs), len(want))
	}
	for _, spec := range specs {
		if want[spec.Name] != spec.Table {
			t.Errorf("agent %s writes to %s, want %s", spec.Name, spec.Table, want[spec.Name])
		}
	}
}

func TestExecutorRunStoresPayload(t *testing.T) {
	gen := &fakeGenerator{
		response: "Here is my analysis:\n```json\n{\"avg_income\": 1150, \"monthly_trend\": \"stable\", \"weekday_income\": {\"friday\": 2000}}\n```",
	}
	store := newRecordingStore()
	e := newTestExecutor(t, gen, store)

	spec := Specs()[0]
	userID := uuid.New()
	if err := e.Run(context.Background(), spec, userID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	payload, ok := store.results["income_patterns"]
	if !ok {
		t.Fatal("no payload written to income_patterns")
	}
	var parsed map[string]any
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("stored payload is not valid JSON: %v", err)
	}
	if parsed["monthly_trend"] != "stable" {
		t.Errorf("monthly_trend = %v, want stable", parsed["monthly_trend"])
	}

	if len(store.runs) != 1 {
		t.Fatalf("got %d run log entries, want 1", len(store.runs))
	}
	if store.runs[0].Status != models.AgentRunStatusCompleted {
		t.Errorf("run status = %s, want completed", store.runs[0].Status)
	}

	// The rendered prompt must carry the transaction history.
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "Uber") {
		t.Error("prompt does not include transaction history")
	}
}

func TestExecutorRunLogsFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("service unavailable")}
	store := newRecordingStore()
	e := newTestExecutor(t, gen, store)

	spec := Specs()[0]
	if err := e.Run(context.Background(), spec, uuid.New()); err == nil {
		t.Fatal("Run succeeded, want error")
	}

	if len(store.results) != 0 {
		t.Errorf("payloads written on failure: %v", store.results)
	}
	if len(store.runs) != 1 || store.runs[0].Status != models.AgentRunStatusFailed {
		t.Fatalf("failed run not logged: %+v", store.runs)
	}
	if store.runs[0].Error == "" {
		t.Error("run log entry has empty error")
	}
}

func TestExecutorRejectsProseOnlyResponse(t *testing.T) {
	gen := &fakeGenerator{response: "I cannot produce an analysis for this user."}
	store := newRecordingStore()
	e := newTestExecutor(t, gen, store)

	err := e.Run(context.Background(), Specs()[0], uuid.New())
	if !errors.Is(err, ErrNoPayload) {
		t.Fatalf("error = %v, want ErrNoPayload", err)
	}
}

func TestExtractPayloadNestedObject(t *testing.T) {
	response := `Result: {"a": {"b": [1, 2, {"c": "d"}]}, "e": "f"} done`
	payload, err := extractPayload(response)
	if err != nil {
		t.Fatalf("extractPayload: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("payload invalid: %v", err)
	}
	if parsed["e"] != "f" {
		t.Errorf("e = %v, want f", parsed["e"])
	}
}

func TestOrchestratorRunsAllAgents(t *testing.T) {
	gen := &fakeGenerator{response: `{"ok": true}`}
	store := newRecordingStore()
	e := newTestExecutor(t, gen, store)

	o, err := NewOrchestrator(e, Specs(), 30*time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	defer o.Close()

	userID := uuid.New()
	if err := o.StartAnalysis(userID); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		status, found := o.Status(userID)
		if found && status.Status != StatusRunning {
			if status.Status != StatusCompleted {
				t.Fatalf("final status = %s, want completed", status.Status)
			}
			if status.AgentsCompleted != len(Specs()) {
				t.Fatalf("agents_completed = %d, want %d", status.AgentsCompleted, len(Specs()))
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("analysis did not finish in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.results) != len(Specs()) {
		t.Errorf("got results in %d tables, want %d", len(store.results), len(Specs()))
	}
}

func TestOrchestratorRejectsConcurrentRun(t *testing.T) {
	block := make(chan struct{})
	gen := &blockingGenerator{block: block}
	store := newRecordingStore()
	e := newTestExecutor(t, gen, store)

	o, err := NewOrchestrator(e, Specs(), 30*time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	defer o.Close()

	userID := uuid.New()
	if err := o.StartAnalysis(userID); err != nil {
		t.Fatalf("first StartAnalysis: %v", err)
	}
	if err := o.StartAnalysis(userID); !errors.Is(err, ErrAnalysisRunning) {
		t.Fatalf("second StartAnalysis error = %v, want ErrAnalysisRunning", err)
	}
	close(block)
}

type blockingGenerator struct {
	block chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	<-g.block
	return `{"ok": true}`, nil
}
