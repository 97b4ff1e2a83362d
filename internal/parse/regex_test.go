package parse

import (
	"math"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

func TestExtract_Amount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"rupee symbol", "bought lunch for ₹500", 500},
		{"rupee symbol with space", "₹ 120.50 for petrol", 120.50},
		{"Rs prefix", "Rs.250 auto fare", 250},
		{"Rs prefix no dot", "Rs 99 recharge", 99},
		{"number before rupees", "I spent 500 rupees on food", 500},
		{"number before paid", "1200 paid for rent", 1200},
		{"keyword before number", "Received 2000 from Uber delivery", 2000},
		{"decimal amount", "spent 349.99 rupees at the store", 349.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := Extract(tt.text, testNow)
			if draft.Amount == nil {
				t.Fatalf("Extract(%q).Amount = nil, want %v", tt.text, tt.want)
			}
			if math.Abs(*draft.Amount-tt.want) > 1e-9 {
				t.Errorf("Extract(%q).Amount = %v, want %v", tt.text, *draft.Amount, tt.want)
			}
		})
	}
}

func TestExtract_NoAmount(t *testing.T) {
	draft := Extract("had a nice day at the park", testNow)
	if draft.Amount != nil {
		t.Errorf("Amount = %v, want nil", *draft.Amount)
	}
}

func TestExtract_TransactionType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want TransactionType
	}{
		{"income keyword", "received 2000 for project work", TypeIncome},
		{"salary", "salary credited today", TypeIncome},
		{"expense keyword", "paid 300 for groceries", TypeExpense},
		{"no keyword defaults to expense", "₹150 auto", TypeExpense},
		// Income keywords are checked first, so a text carrying both kinds
		// of signal resolves to income.
		{"income wins tie-break", "received 500 and spent 200", TypeIncome},
		{"expense keyword before income keyword in text", "spent money after salary received", TypeIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text, testNow).TransactionType; got != tt.want {
				t.Errorf("Extract(%q).TransactionType = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_Category(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"food", "lunch at a restaurant", CategoryFood},
		{"fuel", "petrol fill up", CategoryFuel},
		{"groceries", "weekly groceries run", CategoryGroceries},
		{"rent", "monthly rent paid", CategoryRent},
		{"maintenance", "bike repair work", CategoryMaintenance},
		{"phone", "mobile recharge", CategoryPhone},
		{"delivery", "swiggy order earnings", CategoryDelivery},
		{"freelance", "freelance gig payment", CategoryFreelance},
		{"no keyword", "miscellaneous stuff", CategoryMisc},
		// Food precedes Delivery in the priority table.
		{"food beats delivery", "pizza delivery", CategoryFood},
		// Fuel precedes Delivery.
		{"fuel beats delivery", "petrol for uber shift", CategoryFuel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text, testNow).Category; got != tt.want {
				t.Errorf("Extract(%q).Category = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_Merchant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"at prefix", "coffee at Starbucks today", "Starbucks"},
		{"from prefix", "Received 2000 from Uber delivery", "Uber"},
		{"multi word", "dinner at Hotel Paradise yesterday", "Hotel Paradise"},
		{"suffix pattern", "Reliance store purchase", "Reliance"},
		{"apostrophe", "I spent 500 rupees on food at McDonald's today", "McDonald's"},
		{"no merchant", "spent 100 on snacks", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text, testNow).MerchantName; got != tt.want {
				t.Errorf("Extract(%q).MerchantName = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	draft := Extract("", testNow)

	if draft.Amount != nil {
		t.Errorf("Amount = %v, want nil", *draft.Amount)
	}
	if draft.TransactionType != TypeExpense {
		t.Errorf("TransactionType = %q, want expense", draft.TransactionType)
	}
	if draft.Category != CategoryMisc {
		t.Errorf("Category = %q, want Misc", draft.Category)
	}
	if draft.MerchantName != "" || draft.Description != "" {
		t.Errorf("MerchantName/Description = %q/%q, want empty", draft.MerchantName, draft.Description)
	}
	if draft.TransactionDate != "2025-03-14" {
		t.Errorf("TransactionDate = %q, want 2025-03-14", draft.TransactionDate)
	}
	if draft.TransactionTime != "09:26" {
		t.Errorf("TransactionTime = %q, want 09:26", draft.TransactionTime)
	}
	if draft.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", draft.Confidence)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "I spent 500 rupees on food at McDonald's today"
	first := Extract(text, testNow)
	second := Extract(text, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Extract not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtract_SpentOnFoodScenario(t *testing.T) {
	draft := Extract("I spent 500 rupees on food at McDonald's today", testNow)

	if draft.Amount == nil || *draft.Amount != 500 {
		t.Errorf("Amount = %v, want 500", draft.Amount)
	}
	if draft.TransactionType != TypeExpense {
		t.Errorf("TransactionType = %q, want expense", draft.TransactionType)
	}
	if draft.Category != CategoryFood {
		t.Errorf("Category = %q, want Food", draft.Category)
	}
	if draft.MerchantName != "McDonald's" {
		t.Errorf("MerchantName = %q, want McDonald's", draft.MerchantName)
	}
	if draft.Description != "I spent 500 rupees on food at McDonald's today" {
		t.Errorf("Description = %q", draft.Description)
	}
	// Four pattern hits: amount, type keyword, category, merchant.
	if draft.Confidence < 0.65 || draft.Confidence > 0.75 {
		t.Errorf("Confidence = %v, want within [0.65, 0.75]", draft.Confidence)
	}
}

func TestExtract_ReceivedFromUberScenario(t *testing.T) {
	draft := Extract("Received 2000 from Uber delivery", testNow)

	if draft.Amount == nil || *draft.Amount != 2000 {
		t.Errorf("Amount = %v, want 2000", draft.Amount)
	}
	if draft.TransactionType != TypeIncome {
		t.Errorf("TransactionType = %q, want income", draft.TransactionType)
	}
	if draft.Category != CategoryDelivery {
		t.Errorf("Category = %q, want Delivery", draft.Category)
	}
}

func TestExtract_ConfidenceGrowsWithMatches(t *testing.T) {
	// Progressively richer texts must never lose confidence.
	texts := []string{
		"some note",
		"spent some money",
		"spent 100",
		"spent 100 on fuel",
		"spent 100 on fuel at Indian Oil",
	}

	prev := 0.0
	for _, text := range texts {
		conf := Extract(text, testNow).Confidence
		if conf < prev {
			t.Errorf("confidence decreased: %q gave %v after %v", text, conf, prev)
		}
		if conf > 0.9 {
			t.Errorf("confidence %v exceeds 0.9 for %q", conf, text)
		}
		prev = conf
	}
}

func TestExtract_DescriptionTruncated(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "paid money "
	}
	draft := Extract(long, testNow)
	if got := len([]rune(draft.Description)); got != 100 {
		t.Errorf("len(Description) = %d, want 100", got)
	}
}
