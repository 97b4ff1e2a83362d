package parse

import (
	"strconv"
	"strings"
	"time"
)

// Validate merges untrusted raw fields (typically decoded LLM output) with the
// original input text into a canonical draft. It is total: a field that fails
// its rule is silently defaulted and never blocks the others.
//
// Confidence is always recomputed here; a confidence value in raw is ignored.
// The default record starts at the 0.7 LLM-path prior, then the final score is
// derived from field completeness: min(0.9, 0.5 + 0.05 per filled field).
func Validate(raw map[string]any, originalText string, now time.Time) Draft {
	draft := newDraft(originalText, llmBaseline, now)

	if amount, ok := positiveFloat(raw["amount"]); ok {
		draft.Amount = &amount
	}

	if s, ok := nonEmptyString(raw["transaction_type"]); ok {
		switch strings.ToLower(s) {
		case string(TypeIncome):
			draft.TransactionType = TypeIncome
		case string(TypeExpense):
			draft.TransactionType = TypeExpense
		}
	}

	if s, ok := nonEmptyString(raw["category"]); ok && validCategories[s] {
		draft.Category = s
	}

	if s, ok := nonEmptyString(raw["merchant_name"]); ok {
		draft.MerchantName = truncate(s, maxFieldLen)
	}
	if s, ok := nonEmptyString(raw["description"]); ok {
		draft.Description = truncate(s, maxDescriptionLen)
	}
	if s, ok := nonEmptyString(raw["payment_method"]); ok && validPaymentMethods[s] {
		draft.PaymentMethod = s
	}
	if s, ok := nonEmptyString(raw["location"]); ok {
		draft.Location = truncate(s, maxFieldLen)
	}

	if s, ok := nonEmptyString(raw["transaction_date"]); ok {
		if _, err := time.Parse(dateLayout, s); err == nil {
			draft.TransactionDate = s
		}
	}
	if s, ok := nonEmptyString(raw["transaction_time"]); ok {
		if _, err := time.Parse(timeLayout, s); err == nil {
			draft.TransactionTime = s
		}
	}

	draft.Confidence = confidenceScore(regexBaseline, draft.filledFieldCount())
	return draft
}

// positiveFloat coerces JSON numbers and numeric strings; zero and negative
// amounts are rejected.
func positiveFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if t > 0 {
			return t, true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil && f > 0 {
			return f, true
		}
	}
	return 0, false
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
