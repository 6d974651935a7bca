package domain

import "time"

// Account represents a registered participant with a stored-value balance.
// Accounts are keyed by the payment provider's user id, created on first
// interaction and never deleted, only blocked. All monetary fields are in
// the smallest currency unit.
type Account struct {
	AccountID      int64     `json:"accountID"`      // Provider user id, primary key
	Balance        int64     `json:"balance"`        // Never negative
	TotalDeposited int64     `json:"totalDeposited"` // Monotonic counter
	TotalSpent     int64     `json:"totalSpent"`     // Monotonic counter
	TotalPurchases int64     `json:"totalPurchases"` // Successful item purchases
	Language       string    `json:"language"`       // UI concern, opaque to the core
	Blocked        bool      `json:"blocked"`
	Profiles       []Profile `json:"profiles"`
	LastActiveAt   time.Time `json:"lastActiveAt"`
	Version        int64     `json:"-"` // Optimistic concurrency token
	AuditFields
}

// HasActiveProfiles reports whether any profile still has work to do.
func (a *Account) HasActiveProfiles() bool {
	for i := range a.Profiles {
		if !a.Profiles[i].Done {
			return true
		}
	}
	return false
}

// ProfileByID returns a pointer into the account's profile slice, or nil.
func (a *Account) ProfileByID(profileID string) *Profile {
	for i := range a.Profiles {
		if a.Profiles[i].ProfileID == profileID {
			return &a.Profiles[i]
		}
	}
	return nil
}
