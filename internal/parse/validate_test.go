package parse

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_Dates(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"valid date preserved", "2024-12-31", "2024-12-31"},
		{"another valid date preserved", "2023-02-28", "2023-02-28"},
		{"wrong separator", "2024/12/31", "2025-06-01"},
		{"missing zero padding", "2024-1-5", "2025-06-01"},
		{"month out of range", "2024-13-01", "2025-06-01"},
		{"day out of range", "2024-02-30", "2025-06-01"},
		{"free text", "yesterday", "2025-06-01"},
		{"empty", "", "2025-06-01"},
		{"wrong type", 20241231.0, "2025-06-01"},
		{"absent", nil, "2025-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{}
			if tt.value != nil {
				raw["transaction_date"] = tt.value
			}
			draft := Validate(raw, "text", now)
			if draft.TransactionTime == "" {
				t.Error("TransactionTime is empty")
			}
			if draft.TransactionDate != tt.want {
				t.Errorf("TransactionDate = %q, want %q", draft.TransactionDate, tt.want)
			}
		})
	}
}

func TestValidate_Times(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"valid time preserved", "14:30", "14:30"},
		{"midnight preserved", "00:00", "00:00"},
		{"hour out of range", "25:00", "18:45"},
		{"minute out of range", "12:61", "18:45"},
		{"with seconds", "14:30:00", "18:45"},
		{"twelve hour clock", "2:30 PM", "18:45"},
		{"free text", "afternoon", "18:45"},
		{"absent", nil, "18:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{}
			if tt.value != nil {
				raw["transaction_time"] = tt.value
			}
			draft := Validate(raw, "text", now)
			if draft.TransactionTime != tt.want {
				t.Errorf("TransactionTime = %q, want %q", draft.TransactionTime, tt.want)
			}
		})
	}
}

func TestValidate_Amount(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *float64
	}{
		{"positive number", 450.0, ptr(450.0)},
		{"numeric string", "120.50", ptr(120.50)},
		{"zero rejected", 0.0, nil},
		{"negative rejected", -50.0, nil},
		{"negative string rejected", "-50", nil},
		{"non-numeric string rejected", "five hundred", nil},
		{"absent", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{}
			if tt.value != nil {
				raw["amount"] = tt.value
			}
			draft := Validate(raw, "text", testNow)
			switch {
			case tt.want == nil && draft.Amount != nil:
				t.Errorf("Amount = %v, want nil", *draft.Amount)
			case tt.want != nil && draft.Amount == nil:
				t.Errorf("Amount = nil, want %v", *tt.want)
			case tt.want != nil && *draft.Amount != *tt.want:
				t.Errorf("Amount = %v, want %v", *draft.Amount, *tt.want)
			}
		})
	}
}

func TestValidate_TransactionType(t *testing.T) {
	tests := []struct {
		value any
		want  TransactionType
	}{
		{"income", TypeIncome},
		{"Income", TypeIncome},
		{"EXPENSE", TypeExpense},
		{"transfer", TypeExpense},
		{"", TypeExpense},
		{42.0, TypeExpense},
	}

	for _, tt := range tests {
		draft := Validate(map[string]any{"transaction_type": tt.value}, "text", testNow)
		if draft.TransactionType != tt.want {
			t.Errorf("Validate(transaction_type=%v) = %q, want %q", tt.value, draft.TransactionType, tt.want)
		}
	}
}

func TestValidate_Category(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"Food", "Food"},
		{"EMI", "EMI"},
		{"Salary", "Salary"},
		// Enum match is exact; case variants and unknown labels default.
		{"food", "Misc"},
		{"Entertainment", "Misc"},
		{"", "Misc"},
	}

	for _, tt := range tests {
		draft := Validate(map[string]any{"category": tt.value}, "text", testNow)
		if draft.Category != tt.want {
			t.Errorf("Validate(category=%v) = %q, want %q", tt.value, draft.Category, tt.want)
		}
	}
}

func TestValidate_StringFields(t *testing.T) {
	long := strings.Repeat("x", 300)

	raw := map[string]any{
		"merchant_name": long,
		"description":   long,
		"location":      long,
	}
	draft := Validate(raw, "original", testNow)

	if got := len([]rune(draft.MerchantName)); got != 200 {
		t.Errorf("len(MerchantName) = %d, want 200", got)
	}
	if got := len([]rune(draft.Location)); got != 200 {
		t.Errorf("len(Location) = %d, want 200", got)
	}
	if got := len([]rune(draft.Description)); got != 100 {
		t.Errorf("len(Description) = %d, want 100", got)
	}
}

func TestValidate_DescriptionFromOriginalText(t *testing.T) {
	draft := Validate(map[string]any{}, "bought tea at the stall", testNow)
	if draft.Description != "bought tea at the stall" {
		t.Errorf("Description = %q, want original text", draft.Description)
	}

	draft = Validate(map[string]any{"description": "tea"}, "bought tea at the stall", testNow)
	if draft.Description != "tea" {
		t.Errorf("Description = %q, want supplied value", draft.Description)
	}
}

func TestValidate_PaymentMethod(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"UPI", "UPI"},
		{"Cash", "Cash"},
		{"Card", "Card"},
		{"Bank Transfer", "Bank Transfer"},
		{"upi", ""},
		{"Cheque", ""},
		{"", ""},
	}

	for _, tt := range tests {
		draft := Validate(map[string]any{"payment_method": tt.value}, "text", testNow)
		if draft.PaymentMethod != tt.want {
			t.Errorf("Validate(payment_method=%v) = %q, want %q", tt.value, draft.PaymentMethod, tt.want)
		}
	}
}

func TestValidate_ConfidenceDerived(t *testing.T) {
	// Supplied confidence must be ignored, never copied.
	draft := Validate(map[string]any{"confidence": 0.99}, "", testNow)
	if draft.Confidence == 0.99 {
		t.Error("Confidence copied from untrusted input")
	}

	// Minimal record: type, category, date, time are always filled.
	if draft.Confidence != 0.70 {
		t.Errorf("Confidence = %v, want 0.70", draft.Confidence)
	}

	// With the original text as description.
	draft = Validate(map[string]any{}, "chai break", testNow)
	if draft.Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75", draft.Confidence)
	}
}

func TestValidate_ConfidenceMonotoneAndCapped(t *testing.T) {
	fields := []map[string]any{
		{},
		{"amount": 100.0},
		{"amount": 100.0, "merchant_name": "Chai Point"},
		{"amount": 100.0, "merchant_name": "Chai Point", "payment_method": "UPI"},
		{"amount": 100.0, "merchant_name": "Chai Point", "payment_method": "UPI", "location": "Indiranagar"},
	}

	prev := 0.0
	for i, raw := range fields {
		conf := Validate(raw, "chai break", testNow).Confidence
		if conf < prev {
			t.Errorf("confidence decreased at step %d: %v after %v", i, conf, prev)
		}
		if conf > 0.9 {
			t.Errorf("confidence %v exceeds cap at step %d", conf, i)
		}
		prev = conf
	}

	// Fully-populated record hits the cap exactly.
	full := map[string]any{
		"amount":           100.0,
		"transaction_type": "income",
		"category":         "Freelance",
		"merchant_name":    "Chai Point",
		"description":      "retainer",
		"payment_method":   "UPI",
		"location":         "Indiranagar",
		"transaction_date": "2025-01-15",
		"transaction_time": "10:00",
	}
	if conf := Validate(full, "retainer", testNow).Confidence; conf != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", conf)
	}
}

func ptr(f float64) *float64 { return &f }
