package dto

// TopUpRequest credits the caller's wallet.
type TopUpRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// TransactionsRequest captures ledger listing parameters.
type TransactionsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}
