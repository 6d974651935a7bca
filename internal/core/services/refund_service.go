package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
)

// transactionPageSize is the provider's page size for transaction history.
const transactionPageSize = 100

// refundService reconciles withdrawal requests against the account's
// unrefunded incoming transactions. Selection is exact (exhaustive
// subset enumeration) up to exactThreshold transactions; beyond that a
// greedy descending pass approximates the optimum. The approximation is
// a documented trade-off for large histories, not a bug.
type refundService struct {
	gateway        gateways.PaymentGateway
	ledger         portssvc.LedgerSvc
	exactThreshold int
}

// NewRefundService creates the reconciliation engine.
func NewRefundService(gateway gateways.PaymentGateway, ledger portssvc.LedgerSvc, exactThreshold int) portssvc.RefundSvc {
	return &refundService{
		gateway:        gateway,
		ledger:         ledger,
		exactThreshold: exactThreshold,
	}
}

var _ portssvc.RefundSvc = (*refundService)(nil)

func (s *refundService) Reconcile(ctx context.Context, accountID int64, target int64) (*domain.RefundOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.Int64("account_id", accountID),
		slog.Int64("target", target))

	if target <= 0 {
		return &domain.RefundOutcome{TransactionIDs: []string{}}, nil
	}

	unrefunded, err := s.unrefundedDeposits(ctx, accountID)
	if err != nil {
		return nil, err
	}

	selected, selectedSum := selectSubset(unrefunded, target, s.exactThreshold)
	if len(selected) == 0 {
		logger.Info("No refundable combination found", slog.Int("unrefunded", len(unrefunded)))
		return &domain.RefundOutcome{TransactionIDs: []string{}, Leftover: target}, nil
	}

	// Reverse the chosen transactions. A reversal that fails is skipped,
	// not retried, and excluded from the refunded total; the rest of the
	// batch still goes through.
	var refunded int64
	reversedIDs := make([]string, 0, len(selected))
	selectedIDs := make(map[string]struct{}, len(selected))
	for _, txn := range selected {
		selectedIDs[txn.ID] = struct{}{}
		if err := s.gateway.ReverseTransaction(ctx, accountID, txn.ID); err != nil {
			logger.Warn("Transaction reversal failed",
				slog.String("transaction_id", txn.ID),
				slog.Int64("amount", txn.Amount),
				slog.String("error", err.Error()))
			continue
		}
		refunded += txn.Amount
		reversedIDs = append(reversedIDs, txn.ID)
	}

	if refunded > 0 {
		if _, err := s.ledger.SettleRefund(ctx, accountID, refunded); err != nil {
			return nil, err
		}
	}

	leftover := target - selectedSum
	outcome := &domain.RefundOutcome{
		Refunded:       refunded,
		Count:          len(reversedIDs),
		TransactionIDs: reversedIDs,
		Leftover:       leftover,
	}
	if leftover > 0 {
		outcome.NextDeposit = nextDepositHint(unrefunded, selectedIDs, leftover)
	}

	logger.Info("Reconciliation finished",
		slog.Int64("refunded", refunded),
		slog.Int("count", outcome.Count),
		slog.Int64("leftover", leftover))
	return outcome, nil
}

// unrefundedDeposits pages through the provider's transaction history
// and returns this account's incoming payments that have no matching
// reversal record yet.
func (s *refundService) unrefundedDeposits(ctx context.Context, accountID int64) ([]domain.StarTransaction, error) {
	var all []domain.StarTransaction
	for offset := 0; ; offset += transactionPageSize {
		page, err := s.gateway.ListTransactions(ctx, offset, transactionPageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
	}

	refundedIDs := make(map[string]struct{})
	for _, txn := range all {
		if !txn.Incoming() {
			refundedIDs[txn.ID] = struct{}{}
		}
	}

	var deposits []domain.StarTransaction
	for _, txn := range all {
		if !txn.Incoming() || *txn.SourceAccountID != accountID {
			continue
		}
		if _, done := refundedIDs[txn.ID]; done {
			continue
		}
		deposits = append(deposits, txn)
	}
	return deposits, nil
}

// selectSubset picks transactions maximizing their sum without exceeding
// target. Up to exactThreshold transactions the enumeration is
// exhaustive, stopping early on an exact hit; beyond that it falls back
// to greedy descending acceptance.
func selectSubset(txns []domain.StarTransaction, target int64, exactThreshold int) ([]domain.StarTransaction, int64) {
	n := len(txns)
	if n == 0 {
		return nil, 0
	}

	if n <= exactThreshold {
		var bestMask uint32
		var bestSum int64
		for mask := uint32(1); mask < 1<<n; mask++ {
			var sum int64
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					sum += txns[i].Amount
				}
			}
			if sum <= target && sum > bestSum {
				bestSum = sum
				bestMask = mask
				if bestSum == target {
					break
				}
			}
		}
		if bestMask == 0 {
			return nil, 0
		}
		var subset []domain.StarTransaction
		for i := 0; i < n; i++ {
			if bestMask&(1<<i) != 0 {
				subset = append(subset, txns[i])
			}
		}
		return subset, bestSum
	}

	sorted := make([]domain.StarTransaction, n)
	copy(sorted, txns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	var subset []domain.StarTransaction
	var sum int64
	for _, txn := range sorted {
		if sum+txn.Amount <= target {
			subset = append(subset, txn)
			sum += txn.Amount
		}
	}
	return subset, sum
}

// nextDepositHint finds the cheapest unselected deposit whose amount
// exceeds leftover, as a "top up by at least X" suggestion.
func nextDepositHint(unrefunded []domain.StarTransaction, selectedIDs map[string]struct{}, leftover int64) *domain.NextDepositHint {
	var best *domain.StarTransaction
	for i := range unrefunded {
		txn := &unrefunded[i]
		if _, used := selectedIDs[txn.ID]; used {
			continue
		}
		if txn.Amount <= leftover {
			continue
		}
		if best == nil || txn.Amount < best.Amount {
			best = txn
		}
	}
	if best == nil {
		return nil
	}
	return &domain.NextDepositHint{TransactionID: best.ID, Amount: best.Amount}
}
