package dto

// WithdrawRequest triggers refund reconciliation for an account. Target
// is optional; when zero the handler derives it from the account balance.
type WithdrawRequest struct {
	Target int64 `json:"target" binding:"gte=0"`
}

// NextDepositHintResponse suggests the top-up that would make the
// remaining balance withdrawable.
type NextDepositHintResponse struct {
	TransactionID string `json:"transactionID"`
	Amount        int64  `json:"amount"`
}

// WithdrawResponse reports the reconciliation outcome. Partial
// completion is reported with counts rather than an opaque error.
type WithdrawResponse struct {
	Refunded       int64                    `json:"refunded"`
	Count          int                      `json:"count"`
	TransactionIDs []string                 `json:"transactionIDs"`
	Leftover       int64                    `json:"leftover"`
	NextDeposit    *NextDepositHintResponse `json:"nextDeposit,omitempty"`
}
