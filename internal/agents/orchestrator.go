package agents

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrAnalysisRunning = errors.New("analysis already running for user")

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Status is the per-user progress snapshot served from the status cache.
type Status struct {
	Status          string
	AgentsCompleted int
	TotalAgents     int
	LastUpdated     time.Time
}

// Orchestrator runs the full agent set for a user and tracks progress. A run
// executes the agents sequentially in a background goroutine; status reads go
// through a ristretto cache so polling never touches the database.
type Orchestrator struct {
	executor *Executor
	specs    []Spec
	status   *ristretto.Cache
	running  sync.Map
	timeout  time.Duration
	logger   *zap.Logger
}

func NewOrchestrator(executor *Executor, specs []Spec, timeout time.Duration, logger *zap.Logger) (*Orchestrator, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     10000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		executor: executor,
		specs:    specs,
		status:   cache,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// StartAnalysis launches an agent run for the user and returns immediately.
// A second call while a run is in flight is rejected.
func (o *Orchestrator) StartAnalysis(userID uuid.UUID) error {
	if _, loaded := o.running.LoadOrStore(userID, struct{}{}); loaded {
		return ErrAnalysisRunning
	}

	o.setStatus(userID, Status{
		Status:      StatusRunning,
		TotalAgents: len(o.specs),
		LastUpdated: time.Now(),
	})

	go o.runAll(userID)
	return nil
}

// Status returns the latest progress snapshot for the user. The second return
// is false when no analysis has been started (or the entry was evicted).
func (o *Orchestrator) Status(userID uuid.UUID) (Status, bool) {
	v, found := o.status.Get(userID.String())
	if !found {
		return Status{}, false
	}
	s, ok := v.(Status)
	return s, ok
}

func (o *Orchestrator) runAll(userID uuid.UUID) {
	defer o.running.Delete(userID)

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	completed := 0
	for _, spec := range o.specs {
		if err := o.executor.Run(ctx, spec, userID); err != nil {
			o.logger.Warn("Agent failed, continuing with remaining agents",
				zap.String("agent", spec.Name),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		} else {
			completed++
		}

		o.setStatus(userID, Status{
			Status:          StatusRunning,
			AgentsCompleted: completed,
			TotalAgents:     len(o.specs),
			LastUpdated:     time.Now(),
		})
	}

	final := StatusCompleted
	if completed == 0 {
		final = StatusFailed
	}
	o.setStatus(userID, Status{
		Status:          final,
		AgentsCompleted: completed,
		TotalAgents:     len(o.specs),
		LastUpdated:     time.Now(),
	})

	o.logger.Info("Analysis finished",
		zap.String("user_id", userID.String()),
		zap.String("status", final),
		zap.Int("agents_completed", completed),
		zap.Int("total_agents", len(o.specs)),
	)
}

func (o *Orchestrator) setStatus(userID uuid.UUID, s Status) {
	o.status.Set(userID.String(), s, 1)
	// Set is buffered; Wait makes the entry visible to an immediate poll.
	o.status.Wait()
}

func (o *Orchestrator) Close() {
	o.status.Close()
}
