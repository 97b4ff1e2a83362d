// Package parse implements the text-to-transaction extraction core: the
// deterministic regex extractor, the validator/normalizer that turns untrusted
// LLM or regex output into a canonical draft, and the lenient JSON extraction
// used on raw model responses. Everything here is pure; the external OCR,
// speech and text-generation calls live in internal/service.
package parse

import "time"

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Categories form a closed set. Anything outside it is normalized to Misc.
const (
	CategoryFood        = "Food"
	CategoryFuel        = "Fuel"
	CategoryRent        = "Rent"
	CategoryGroceries   = "Groceries"
	CategoryMaintenance = "Maintenance"
	CategoryPhone       = "Phone"
	CategoryEMI         = "EMI"
	CategoryMisc        = "Misc"
	CategoryDelivery    = "Delivery"
	CategoryFreelance   = "Freelance"
	CategorySalary      = "Salary"
	CategoryOther       = "Other"
)

var validCategories = map[string]bool{
	CategoryFood:        true,
	CategoryFuel:        true,
	CategoryRent:        true,
	CategoryGroceries:   true,
	CategoryMaintenance: true,
	CategoryPhone:       true,
	CategoryEMI:         true,
	CategoryMisc:        true,
	CategoryDelivery:    true,
	CategoryFreelance:   true,
	CategorySalary:      true,
	CategoryOther:       true,
}

var validPaymentMethods = map[string]bool{
	"UPI":           true,
	"Cash":          true,
	"Card":          true,
	"Bank Transfer": true,
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	maxFieldLen       = 200
	maxDescriptionLen = 100

	maxConfidence     = 0.9
	confidencePerUnit = 0.05
	regexBaseline     = 0.5
	llmBaseline       = 0.7
)

// Draft is the canonical, not-yet-confirmed transaction record produced by a
// single parse. It is constructed fresh per call and never mutated afterwards.
type Draft struct {
	Amount          *float64        `json:"amount"`
	TransactionType TransactionType `json:"transaction_type"`
	Category        string          `json:"category"`
	MerchantName    string          `json:"merchant_name"`
	Description     string          `json:"description"`
	PaymentMethod   string          `json:"payment_method"`
	Location        string          `json:"location"`
	TransactionDate string          `json:"transaction_date"`
	TransactionTime string          `json:"transaction_time"`
	Confidence      float64         `json:"confidence"`
}

// newDraft returns a draft with every field at its documented default and the
// clock-derived date/time already filled in.
func newDraft(originalText string, confidence float64, now time.Time) Draft {
	return Draft{
		TransactionType: TypeExpense,
		Category:        CategoryMisc,
		Description:     truncate(originalText, maxDescriptionLen),
		TransactionDate: now.Format(dateLayout),
		TransactionTime: now.Format(timeLayout),
		Confidence:      confidence,
	}
}

// filledFieldCount counts non-empty fields, excluding confidence itself.
func (d Draft) filledFieldCount() int {
	count := 0
	if d.Amount != nil {
		count++
	}
	for _, s := range []string{
		string(d.TransactionType), d.Category, d.MerchantName, d.Description,
		d.PaymentMethod, d.Location, d.TransactionDate, d.TransactionTime,
	} {
		if s != "" {
			count++
		}
	}
	return count
}

func confidenceScore(baseline float64, units int) float64 {
	score := baseline + confidencePerUnit*float64(units)
	if score > maxConfidence {
		return maxConfidence
	}
	return score
}

// truncate limits s to at most n runes. Limits are rune-based so multi-byte
// input (₹, regional scripts) is never cut mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
