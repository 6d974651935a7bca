package domain

// StarTransaction is a transaction record owned by the payment provider.
// The core never mutates these; it reads them to compute reconciliation
// decisions. A nil SourceAccountID means the record is itself a refund.
type StarTransaction struct {
	ID              string `json:"id"`
	Amount          int64  `json:"amount"`
	SourceAccountID *int64 `json:"sourceAccountID,omitempty"`
}

// Incoming reports whether the transaction is an incoming payment.
func (t StarTransaction) Incoming() bool {
	return t.SourceAccountID != nil
}

// CatalogItem is a purchasable item from the provider catalog.
// Supply of zero means unlimited.
type CatalogItem struct {
	ID     string `json:"id"`
	Price  int64  `json:"price"`
	Supply int64  `json:"supply"`
}

// NextDepositHint points at the cheapest unused deposit that would make
// the remaining balance withdrawable.
type NextDepositHint struct {
	TransactionID string `json:"transactionID"`
	Amount        int64  `json:"amount"`
}

// RefundOutcome is the result of one reconciliation run.
type RefundOutcome struct {
	Refunded       int64            `json:"refunded"` // Sum of successfully reversed amounts
	Count          int              `json:"count"`
	TransactionIDs []string         `json:"transactionIDs"`
	Leftover       int64            `json:"leftover"`
	NextDeposit    *NextDepositHint `json:"nextDeposit,omitempty"`
}
