package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/models"
)

// ToDomainAccount converts a database row into the domain representation.
func ToDomainAccount(m models.Account) (domain.Account, error) {
	var profiles []domain.Profile
	if len(m.ProfilesJSON) > 0 {
		if err := json.Unmarshal(m.ProfilesJSON, &profiles); err != nil {
			return domain.Account{}, fmt.Errorf("failed to decode profiles for account %d: %w", m.AccountID, err)
		}
	}
	return domain.Account{
		AccountID:      m.AccountID,
		Balance:        m.Balance,
		TotalDeposited: m.TotalDeposited,
		TotalSpent:     m.TotalSpent,
		TotalPurchases: m.TotalPurchases,
		Language:       m.Language,
		Blocked:        m.Blocked,
		Profiles:       profiles,
		LastActiveAt:   m.LastActiveAt,
		Version:        m.Version,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}, nil
}

// ToModelAccount converts a domain account into its database row form.
func ToModelAccount(a domain.Account) (models.Account, error) {
	profiles := a.Profiles
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	profilesJSON, err := json.Marshal(profiles)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to encode profiles for account %d: %w", a.AccountID, err)
	}
	return models.Account{
		AccountID:      a.AccountID,
		Balance:        a.Balance,
		TotalDeposited: a.TotalDeposited,
		TotalSpent:     a.TotalSpent,
		TotalPurchases: a.TotalPurchases,
		Language:       a.Language,
		Blocked:        a.Blocked,
		ProfilesJSON:   profilesJSON,
		LastActiveAt:   a.LastActiveAt,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		LastUpdatedAt:  a.LastUpdatedAt,
	}, nil
}
