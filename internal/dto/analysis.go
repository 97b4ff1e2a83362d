package dto

type AnalysisResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	UserID          string `json:"user_id"`
	AnalysisStarted string `json:"analysis_started"`
}

type AnalysisStatusResponse struct {
	UserID          string `json:"user_id"`
	Status          string `json:"status"`
	AgentsCompleted int    `json:"agents_completed"`
	TotalAgents     int    `json:"total_agents"`
	LastUpdated     string `json:"last_updated"`
}
