package repository

import (
	"context"
	"time"

	"gigpaisa/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AgentResultRepository writes agent outputs. Each agent stores a single JSON
// payload row in its own table; table names come exclusively from the
// compiled-in agent list, never from request input.
type AgentResultRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAgentResultRepository(db *pgxpool.Pool, logger *zap.Logger) *AgentResultRepository {
	return &AgentResultRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AgentResultRepository) InsertResult(ctx context.Context, table string, userID uuid.UUID, agent string, payload []byte) error {
	query := squirrel.Insert(table).
		Columns("id", "user_id", "agent", "payload", "created_at").
		Values(uuid.New(), userID, agent, payload, time.Now()).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *AgentResultRepository) LogRun(ctx context.Context, run *models.AgentRun) error {
	query := squirrel.Insert("agent_runs").
		Columns("id", "user_id", "agent", "status", "error", "created_at").
		Values(run.ID, run.UserID, run.Agent, run.Status, run.Error, run.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
