package models

import (
	"time"

	"github.com/google/uuid"
)

// AgentRun records one agent execution in the agent_runs log table.
type AgentRun struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Agent     string    `db:"agent"`
	Status    string    `db:"status"`
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	AgentRunStatusCompleted = "completed"
	AgentRunStatusFailed    = "failed"
)
