package dto

// ParseErrorResponse is returned when the pipeline cannot produce a usable
// draft: extraction failed outright or yielded too little text.
type ParseErrorResponse struct {
	Error      string  `json:"error"`
	Confidence float64 `json:"confidence"`
}

// ConfirmTransactionRequest mirrors the draft shape: the client sends back the
// (possibly user-edited) draft to persist it.
type ConfirmTransactionRequest struct {
	Amount          *float64 `json:"amount"`
	TransactionType string   `json:"transaction_type"`
	Category        string   `json:"category"`
	MerchantName    string   `json:"merchant_name"`
	Description     string   `json:"description"`
	PaymentMethod   string   `json:"payment_method"`
	Location        string   `json:"location"`
	TransactionDate string   `json:"transaction_date"`
	TransactionTime string   `json:"transaction_time"`
	Confidence      float64  `json:"confidence"`
}

type TransactionResponse struct {
	ID              string   `json:"id"`
	Amount          *float64 `json:"amount"`
	TransactionType string   `json:"transaction_type"`
	Category        string   `json:"category"`
	MerchantName    string   `json:"merchant_name"`
	Description     string   `json:"description"`
	PaymentMethod   string   `json:"payment_method"`
	Location        string   `json:"location"`
	TransactionDate string   `json:"transaction_date"`
	TransactionTime string   `json:"transaction_time"`
	Confidence      float64  `json:"confidence"`
	CreatedAt       string   `json:"created_at"`
}
