package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	AccountRepo  AccountRepository
	OperatorRepo OperatorRepository
	JournalRepo  JournalRepository
}
