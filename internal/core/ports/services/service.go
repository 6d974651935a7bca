package services

// ServiceContainer bundles all services for dependency injection.
type ServiceContainer struct {
	Account  AccountSvc
	Ledger   LedgerSvc
	Purchase PurchaseSvc
	Refund   RefundSvc
	Operator OperatorSvc
	Token    TokenSvc
}
