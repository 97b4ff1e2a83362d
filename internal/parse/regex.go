package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Amount patterns are tried in order; the first numeric capture wins. The last
// pattern handles the spoken "received 2000" word order that voice notes
// commonly produce.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)₹\s*(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)Rs\.?\s*(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{2})?)\s*(?:rupees|rs|₹)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{2})?)\s*(?:paid|spent|received|earned)`),
	regexp.MustCompile(`(?i)(?:paid|spent|received|earned)\s*₹?\s*(\d+(?:\.\d{2})?)`),
}

// Income keywords are checked before expense keywords; a text containing both
// is classified as income.
var (
	incomeKeywords  = []string{"received", "earned", "income", "salary", "payment received"}
	expenseKeywords = []string{"spent", "paid", "purchase", "bought", "expense"}
)

// categoryKeywords is an explicit ordered list: the first category whose
// keyword list matches wins. Order is part of the contract, not an accident of
// map iteration.
var categoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{CategoryFood, []string{"food", "restaurant", "mcdonald", "pizza", "lunch", "dinner", "breakfast"}},
	{CategoryFuel, []string{"fuel", "petrol", "diesel", "gas", "gasoline"}},
	{CategoryGroceries, []string{"grocery", "groceries", "supermarket", "big bazaar"}},
	{CategoryRent, []string{"rent", "rental"}},
	{CategoryMaintenance, []string{"maintenance", "repair"}},
	{CategoryPhone, []string{"phone", "mobile", "telecom"}},
	{CategoryDelivery, []string{"delivery", "uber", "ola", "swiggy", "zomato"}},
	{CategoryFreelance, []string{"freelance", "project", "client"}},
}

var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:at|from|to)\s+([A-Z][a-zA-Z']+(?:\s+[A-Z][a-zA-Z']+)*)`),
	regexp.MustCompile(`([A-Z][a-zA-Z']+(?:\s+[A-Z][a-zA-Z']+)*)\s+(?:restaurant|store|shop)`),
}

// Extract is the presumptive fallback: a pure, deterministic keyword/pattern
// extractor used when the LLM path fails. It produces a usable draft for any
// input, including the empty string. Confidence starts at the 0.5 fallback
// baseline and grows with each field the patterns actually matched.
func Extract(text string, now time.Time) Draft {
	draft := newDraft(text, regexBaseline, now)
	matched := 0

	for _, pattern := range amountPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if amount, err := strconv.ParseFloat(m[1], 64); err == nil {
			draft.Amount = &amount
			matched++
			break
		}
	}

	textLower := strings.ToLower(text)
	if containsAny(textLower, incomeKeywords) {
		draft.TransactionType = TypeIncome
		matched++
	} else if containsAny(textLower, expenseKeywords) {
		draft.TransactionType = TypeExpense
		matched++
	}

	for _, entry := range categoryKeywords {
		if containsAny(textLower, entry.Keywords) {
			draft.Category = entry.Category
			matched++
			break
		}
	}

	for _, pattern := range merchantPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			draft.MerchantName = truncate(m[1], maxFieldLen)
			matched++
			break
		}
	}

	draft.Confidence = confidenceScore(regexBaseline, matched)
	return draft
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
