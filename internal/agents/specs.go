// Package agents defines the analysis agents as data and the machinery that
// runs them. Each agent is a prompt pair over the shared text-generation
// client; its output is a single JSON object written to the agent's own table.
package agents

// Spec describes one analysis agent. Table names are part of the compiled-in
// spec and are the only table names the result repository ever receives.
type Spec struct {
	Name         string
	Table        string
	Description  string
	SystemPrompt string
	TaskTemplate string
}

const outputInstruction = "Respond with a single JSON object only, no explanations and no markdown."

// Specs returns the nine agents in execution order. Order matters: later
// agents reason over the outputs of earlier ones, so pattern analysis runs
// first and action planning last.
func Specs() []Spec {
	return []Spec{
		{
			Name:        "pattern",
			Table:       "income_patterns",
			Description: "identifies income patterns from transaction history",
			SystemPrompt: "You are a pattern recognition engine for gig worker financial analysis. " +
				"You analyze transaction history to find income patterns: average, minimum and maximum income, " +
				"weekday patterns, monthly trends and feast/famine periods. Be conservative with confidence scores. " +
				outputInstruction,
			TaskTemplate: "Analyze the transaction history below and produce a JSON object with fields: " +
				"avg_income, min_income, max_income, weekday_income (object keyed by weekday), " +
				"monthly_trend (\"increasing\", \"decreasing\" or \"stable\"), seasonal_factors (array of strings), " +
				"confidence_score (0 to 1).\n\n{{.Transactions}}",
		},
		{
			Name:        "budget",
			Table:       "budgets",
			Description: "builds feast and famine week budgets",
			SystemPrompt: "You are a budget analysis engine for gig worker financial planning. " +
				"You create realistic budgets that account for income volatility: a feast week budget for " +
				"high-income periods, a famine week budget covering essentials only, and a balanced monthly budget. " +
				outputInstruction,
			TaskTemplate: "Based on the transaction history below, produce a JSON object with fields: " +
				"feast_week_budget, famine_week_budget, monthly_budget, category_limits (object keyed by category), " +
				"savings_target.\n\n{{.Transactions}}",
		},
		{
			Name:        "context",
			Table:       "context_signals",
			Description: "surfaces external factors affecting income",
			SystemPrompt: "You are a context intelligence engine for gig workers in India. " +
				"You identify external factors that affect gig income: festivals, seasons, weather patterns " +
				"and local demand cycles. " + outputInstruction,
			TaskTemplate: "Given the transaction history below and today's date {{.Date}}, produce a JSON object " +
				"with fields: upcoming_events (array of {name, date, expected_impact}), " +
				"seasonal_outlook, demand_signal (\"high\", \"normal\" or \"low\").\n\n{{.Transactions}}",
		},
		{
			Name:        "volatility",
			Table:       "income_forecasts",
			Description: "forecasts 30-day income scenarios",
			SystemPrompt: "You are an income volatility forecaster for gig workers. " +
				"You predict 30-day income under pessimistic, realistic and optimistic scenarios and " +
				"quantify volatility. " + outputInstruction,
			TaskTemplate: "From the transaction history below, produce a JSON object with fields: " +
				"pessimistic, realistic, optimistic (forecast amounts for the next 30 days), " +
				"volatility_index (0 to 1), notes.\n\n{{.Transactions}}",
		},
		{
			Name:        "knowledge",
			Table:       "user_schemes",
			Description: "matches government schemes to the user",
			SystemPrompt: "You are a knowledge integration engine specializing in Indian government schemes " +
				"for gig workers, such as e-Shram, PM-SYM and Ayushman Bharat. You match users with schemes " +
				"they are plausibly eligible for based on their income profile. " + outputInstruction,
			TaskTemplate: "Based on the income picture in the transaction history below, produce a JSON object " +
				"with fields: matched_schemes (array of {scheme, reason, next_step}), estimated_benefit.\n\n{{.Transactions}}",
		},
		{
			Name:        "tax",
			Table:       "tax_records",
			Description: "estimates tax liability and filing needs",
			SystemPrompt: "You are a tax and compliance engine with knowledge of Indian income tax rules " +
				"for gig workers, including presumptive taxation under section 44ADA and advance tax schedules. " +
				outputInstruction,
			TaskTemplate: "Estimate the tax position from the transaction history below. Produce a JSON object " +
				"with fields: estimated_annual_income, estimated_tax, regime_suggestion (\"old\" or \"new\"), " +
				"advance_tax_due, filing_notes.\n\n{{.Transactions}}",
		},
		{
			Name:        "recommendation",
			Table:       "recommendations",
			Description: "generates personalized financial guidance",
			SystemPrompt: "You are a recommendation engine providing personalized, actionable financial guidance " +
				"to gig workers. Recommendations must be specific and achievable given irregular income. " +
				outputInstruction,
			TaskTemplate: "From the transaction history below, produce a JSON object with a field " +
				"recommendations: an array of {title, detail, priority (\"high\", \"medium\" or \"low\")}, " +
				"at most five entries.\n\n{{.Transactions}}",
		},
		{
			Name:        "risk",
			Table:       "risk_assessments",
			Description: "evaluates financial health and risk factors",
			SystemPrompt: "You are a risk assessment engine evaluating financial health for gig workers. " +
				"You identify risks such as income collapse, debt stress and missing safety nets, and flag " +
				"cases that need human attention. " + outputInstruction,
			TaskTemplate: "Assess the financial risk visible in the transaction history below. " +
				"Produce a JSON object with fields: risk_level (\"low\", \"medium\", \"high\"), " +
				"risk_factors (array of strings), escalate (boolean), summary.\n\n{{.Transactions}}",
		},
		{
			Name:        "action",
			Table:       "executed_actions",
			Description: "plans automatable follow-up actions",
			SystemPrompt: "You are an action execution engine that turns financial recommendations into " +
				"concrete plans: reminders, transfers to set up, applications to file. " + outputInstruction,
			TaskTemplate: "From the transaction history below, produce a JSON object with a field " +
				"actions: an array of {action, schedule, automated (boolean)}.\n\n{{.Transactions}}",
		},
	}
}
