package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/dto"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/StarGiftLabs/star_gifting_app/pkg/config"
	"github.com/google/uuid"
)

// casRetries bounds optimistic-concurrency retry loops before the
// conflict is surfaced as a persistence failure.
const casRetries = 3

// Default profile created with every new account, matching the values
// the input wizard presets.
const (
	defaultMinPrice  = 5000
	defaultMaxPrice  = 10000
	defaultMinSupply = 1000
	defaultMaxSupply = 10000
	defaultCount     = 5
	defaultLimit     = 1000000
)

type accountService struct {
	accountRepo portsrepo.AccountRepository
	cfg         *config.Config
}

// NewAccountService creates the account/profile service.
func NewAccountService(accountRepo portsrepo.AccountRepository, cfg *config.Config) portssvc.AccountSvc {
	return &accountService{accountRepo: accountRepo, cfg: cfg}
}

var _ portssvc.AccountSvc = (*accountService)(nil)

func (s *accountService) EnsureAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	self := accountID
	newAccount := domain.Account{
		AccountID:    accountID,
		Language:     "en",
		LastActiveAt: now,
		Profiles: []domain.Profile{{
			ProfileID:       uuid.NewString(),
			MinPrice:        defaultMinPrice,
			MaxPrice:        defaultMaxPrice,
			MinSupply:       defaultMinSupply,
			MaxSupply:       defaultMaxSupply,
			Count:           defaultCount,
			Limit:           defaultLimit,
			TargetAccountID: &self,
		}},
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.accountRepo.SaveAccount(ctx, newAccount); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the creation race; the other writer's record wins.
			return s.accountRepo.FindAccountByID(ctx, accountID)
		}
		return nil, persistenceErr(err)
	}

	logger.Info("Account created", slog.Int64("account_id", accountID))
	return &newAccount, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) SetBlocked(ctx context.Context, accountID int64, blocked bool) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	err := s.updateWithRetry(ctx, accountID, func(account *domain.Account) error {
		account.Blocked = blocked
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Account blocked flag updated", slog.Int64("account_id", accountID), slog.Bool("blocked", blocked))
	return nil
}

func (s *accountService) SetLanguage(ctx context.Context, accountID int64, language string) error {
	if language == "" {
		return fmt.Errorf("%w: language must not be empty", apperrors.ErrValidation)
	}
	return s.updateWithRetry(ctx, accountID, func(account *domain.Account) error {
		account.Language = language
		return nil
	})
}

func (s *accountService) AddProfile(ctx context.Context, accountID int64, req dto.ProfileRequest) (*domain.Profile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	profile, err := s.profileFromRequest(req)
	if err != nil {
		return nil, err
	}

	err = s.updateWithRetry(ctx, accountID, func(account *domain.Account) error {
		if len(account.Profiles) >= s.cfg.MaxProfilesPerAccount {
			return fmt.Errorf("%w: at most %d profiles per account", apperrors.ErrValidation, s.cfg.MaxProfilesPerAccount)
		}
		account.Profiles = append(account.Profiles, *profile)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Profile added", slog.Int64("account_id", accountID), slog.String("profile_id", profile.ProfileID))
	return profile, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, accountID int64, profileID string, req dto.ProfileRequest) (*domain.Profile, error) {
	replacement, err := s.profileFromRequest(req)
	if err != nil {
		return nil, err
	}

	var updated *domain.Profile
	err = s.updateWithRetry(ctx, accountID, func(account *domain.Account) error {
		profile := account.ProfileByID(profileID)
		if profile == nil {
			return fmt.Errorf("%w: profile %s", apperrors.ErrNotFound, profileID)
		}
		// Progress counters and the done flag survive a bounds edit.
		replacement.ProfileID = profile.ProfileID
		replacement.Bought = profile.Bought
		replacement.Spent = profile.Spent
		replacement.Done = profile.Done
		*profile = *replacement
		p := *profile
		updated = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *accountService) RemoveProfile(ctx context.Context, accountID int64, profileID string) error {
	return s.updateWithRetry(ctx, accountID, func(account *domain.Account) error {
		for i := range account.Profiles {
			if account.Profiles[i].ProfileID == profileID {
				account.Profiles = append(account.Profiles[:i], account.Profiles[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: profile %s", apperrors.ErrNotFound, profileID)
	})
}

func (s *accountService) ResetProfile(ctx context.Context, accountID int64, profileID string) (*domain.Profile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var reset *domain.Profile
	err := s.updateWithRetry(ctx, accountID, func(account *domain.Account) error {
		profile := account.ProfileByID(profileID)
		if profile == nil {
			return fmt.Errorf("%w: profile %s", apperrors.ErrNotFound, profileID)
		}
		profile.Reset()
		p := *profile
		reset = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Profile reset", slog.Int64("account_id", accountID), slog.String("profile_id", profileID))
	return reset, nil
}

func (s *accountService) SaveProfileProgress(ctx context.Context, accountID int64, profile domain.Profile) error {
	return s.updateWithRetry(ctx, accountID, func(account *domain.Account) error {
		stored := account.ProfileByID(profile.ProfileID)
		if stored == nil {
			return fmt.Errorf("%w: profile %s", apperrors.ErrNotFound, profile.ProfileID)
		}
		// Done is monotonic: a concurrent reset wins over stale progress,
		// but a done profile never reverts through this path.
		stored.Bought = profile.Bought
		stored.Spent = profile.Spent
		if profile.Done {
			stored.Done = true
		}
		return nil
	})
}

// profileFromRequest validates wizard input. Bounds are re-validated here
// regardless of wizard-side checks.
func (s *accountService) profileFromRequest(req dto.ProfileRequest) (*domain.Profile, error) {
	if req.MinPrice > req.MaxPrice {
		return nil, fmt.Errorf("%w: minPrice %d exceeds maxPrice %d", apperrors.ErrValidation, req.MinPrice, req.MaxPrice)
	}
	if req.MinSupply > req.MaxSupply {
		return nil, fmt.Errorf("%w: minSupply %d exceeds maxSupply %d", apperrors.ErrValidation, req.MinSupply, req.MaxSupply)
	}
	if req.Count <= 0 || req.Limit <= 0 {
		return nil, fmt.Errorf("%w: count and limit must be positive", apperrors.ErrValidation)
	}
	if (req.TargetAccountID == nil) == (req.TargetChannel == nil) {
		return nil, fmt.Errorf("%w: exactly one of targetAccountID or targetChannel must be set", apperrors.ErrValidation)
	}
	return &domain.Profile{
		ProfileID:       uuid.NewString(),
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		MinSupply:       req.MinSupply,
		MaxSupply:       req.MaxSupply,
		Count:           req.Count,
		Limit:           req.Limit,
		TargetAccountID: req.TargetAccountID,
		TargetChannel:   req.TargetChannel,
	}, nil
}

// updateWithRetry performs an optimistic read-modify-write on one
// account, retrying on version conflicts.
func (s *accountService) updateWithRetry(ctx context.Context, accountID int64, mutate func(*domain.Account) error) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if err := mutate(account); err != nil {
			return err
		}
		account.LastUpdatedAt = time.Now().UTC()
		err = s.accountRepo.UpdateAccount(ctx, *account)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return persistenceErr(err)
		}
	}
	return fmt.Errorf("%w: account %d kept changing concurrently", apperrors.ErrPersistence, accountID)
}
