package models

import "time"

// Account is the database representation of an account row. Profiles
// are stored as a jsonb document alongside the scalar columns.
type Account struct {
	AccountID      int64
	Balance        int64
	TotalDeposited int64
	TotalSpent     int64
	TotalPurchases int64
	Language       string
	Blocked        bool
	ProfilesJSON   []byte
	LastActiveAt   time.Time
	Version        int64
	CreatedAt      time.Time
	LastUpdatedAt  time.Time
}
