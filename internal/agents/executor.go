package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gigpaisa/internal/models"
	"gigpaisa/pkg/metrics"
)

// Generator produces a completion for a prompt. Satisfied by service.LLMService.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TransactionLister provides the transaction history an agent reasons over.
type TransactionLister interface {
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error)
}

// ResultStore persists agent outputs and run log entries.
type ResultStore interface {
	InsertResult(ctx context.Context, table string, userID uuid.UUID, agent string, payload []byte) error
	LogRun(ctx context.Context, run *models.AgentRun) error
}

// maxHistory caps how many transactions are embedded in a prompt.
const maxHistory = 200

var ErrNoPayload = errors.New("no JSON payload in agent response")

// Executor runs a single agent spec end to end: render the task prompt over
// the user's transaction history, generate, extract the JSON payload and
// write it to the spec's table.
type Executor struct {
	generator    Generator
	transactions TransactionLister
	results      ResultStore
	templates    map[string]*template.Template
	collector    *metrics.Collector
	logger       *zap.Logger
}

func NewExecutor(
	generator Generator,
	transactions TransactionLister,
	results ResultStore,
	specs []Spec,
	collector *metrics.Collector,
	logger *zap.Logger,
) (*Executor, error) {
	templates := make(map[string]*template.Template, len(specs))
	for _, spec := range specs {
		tmpl, err := template.New(spec.Name).Parse(spec.TaskTemplate)
		if err != nil {
			return nil, fmt.Errorf("invalid task template for agent %s: %w", spec.Name, err)
		}
		templates[spec.Name] = tmpl
	}

	return &Executor{
		generator:    generator,
		transactions: transactions,
		results:      results,
		templates:    templates,
		collector:    collector,
		logger:       logger,
	}, nil
}

type promptContext struct {
	Transactions string
	Date         string
}

// Run executes one agent for one user. The run is logged to agent_runs
// whether it succeeds or fails.
func (e *Executor) Run(ctx context.Context, spec Spec, userID uuid.UUID) error {
	err := e.run(ctx, spec, userID)

	run := &models.AgentRun{
		ID:        uuid.New(),
		UserID:    userID,
		Agent:     spec.Name,
		Status:    models.AgentRunStatusCompleted,
		CreatedAt: time.Now(),
	}
	outcome := "completed"
	if err != nil {
		run.Status = models.AgentRunStatusFailed
		run.Error = err.Error()
		outcome = "failed"
	}
	e.collector.AgentRun(spec.Name, outcome)

	if logErr := e.results.LogRun(ctx, run); logErr != nil {
		e.logger.Error("Failed to log agent run",
			zap.String("agent", spec.Name),
			zap.Error(logErr),
		)
	}

	return err
}

func (e *Executor) run(ctx context.Context, spec Spec, userID uuid.UUID) error {
	history, err := e.transactions.ListByUserID(ctx, userID, maxHistory, 0)
	if err != nil {
		return fmt.Errorf("failed to load transaction history: %w", err)
	}

	var rendered strings.Builder
	now := time.Now()
	pc := promptContext{
		Transactions: formatHistory(history),
		Date:         now.Format("2006-01-02"),
	}
	if err := e.templates[spec.Name].Execute(&rendered, pc); err != nil {
		return fmt.Errorf("failed to render task prompt: %w", err)
	}

	prompt := spec.SystemPrompt + "\n\n" + rendered.String()

	response, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	payload, err := extractPayload(response)
	if err != nil {
		return err
	}

	if err := e.results.InsertResult(ctx, spec.Table, userID, spec.Name, payload); err != nil {
		return fmt.Errorf("failed to store agent result: %w", err)
	}

	e.logger.Info("Agent run completed",
		zap.String("agent", spec.Name),
		zap.String("user_id", userID.String()),
		zap.Int("payload_bytes", len(payload)),
	)

	return nil
}

// formatHistory renders transactions as one line each, newest first, in the
// order the repository returns them.
func formatHistory(history []*models.Transaction) string {
	if len(history) == 0 {
		return "Transaction history: (no transactions recorded yet)"
	}

	var b strings.Builder
	b.WriteString("Transaction history (newest first):\n")
	for _, tx := range history {
		amount := "?"
		if tx.Amount != nil {
			amount = fmt.Sprintf("%.2f", *tx.Amount)
		}
		fmt.Fprintf(&b, "%s %s | %s | %s | ₹%s",
			tx.TransactionDate, tx.TransactionTime, tx.TransactionType, tx.Category, amount)
		if tx.MerchantName != "" {
			fmt.Fprintf(&b, " | %s", tx.MerchantName)
		}
		if tx.PaymentMethod != "" {
			fmt.Fprintf(&b, " | %s", tx.PaymentMethod)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// extractPayload pulls the outermost JSON object out of a model response,
// tolerating surrounding prose and markdown fences. Unlike the flat extraction
// used for transaction drafts, agent payloads nest freely, so the object is
// located by brace span and then validated by a full unmarshal.
func extractPayload(response string) ([]byte, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, ErrNoPayload
	}

	candidate := cleaned[start : end+1]
	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPayload, err)
	}

	// Re-marshal so the stored payload is exactly what parsed, without any
	// stray prose the brace span might have accidentally included.
	payload, err := json.Marshal(parsed)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
