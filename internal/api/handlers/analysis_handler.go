package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gigpaisa/internal/agents"
	"gigpaisa/internal/dto"
)

type AnalysisHandler struct {
	orchestrator *agents.Orchestrator
	logger       *zap.Logger
}

func NewAnalysisHandler(orchestrator *agents.Orchestrator, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// StartAnalysis kicks off the agent run for the authenticated user and
// returns immediately; progress is polled via Status.
func (h *AnalysisHandler) StartAnalysis(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if err := h.orchestrator.StartAnalysis(userID); err != nil {
		if errors.Is(err, agents.ErrAnalysisRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Analysis already running",
			})
		}
		h.logger.Error("Failed to start analysis", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start analysis",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.AnalysisResponse{
		Status:          "started",
		Message:         "Analysis started, poll the status endpoint for progress",
		UserID:          userID.String(),
		AnalysisStarted: time.Now().Format(time.RFC3339),
	})
}

// Status returns the progress of the user's analysis run. Any authenticated
// user's status may be queried by ID; the payload carries only counters.
func (h *AnalysisHandler) Status(c *fiber.Ctx) error {
	if _, err := getUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	status, found := h.orchestrator.Status(targetID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No analysis found for user",
		})
	}

	return c.JSON(dto.AnalysisStatusResponse{
		UserID:          targetID.String(),
		Status:          status.Status,
		AgentsCompleted: status.AgentsCompleted,
		TotalAgents:     status.TotalAgents,
		LastUpdated:     status.LastUpdated.Format(time.RFC3339),
	})
}
