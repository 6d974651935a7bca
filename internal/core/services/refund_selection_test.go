package services

import (
	"testing"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txnsOf(amounts ...int64) []domain.StarTransaction {
	txns := make([]domain.StarTransaction, len(amounts))
	for i, amount := range amounts {
		txns[i] = domain.StarTransaction{ID: string(rune('a' + i)), Amount: amount}
	}
	return txns
}

func sumOf(txns []domain.StarTransaction) int64 {
	var sum int64
	for _, txn := range txns {
		sum += txn.Amount
	}
	return sum
}

func TestSelectSubset_Exhaustive(t *testing.T) {
	tests := []struct {
		name    string
		amounts []int64
		target  int64
		wantSum int64
	}{
		{"exact pair", []int64{3000, 5000, 7000}, 10000, 10000},
		{"best under target", []int64{3000, 5000, 7000}, 9000, 8000},
		{"single exact", []int64{5000}, 5000, 5000},
		{"nothing fits", []int64{5000}, 3000, 0},
		{"all selected", []int64{100, 200, 300}, 1000, 600},
		{"duplicates", []int64{2500, 2500, 2500}, 5000, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subset, sum := selectSubset(txnsOf(tt.amounts...), tt.target, 18)
			assert.Equal(t, tt.wantSum, sum)
			assert.Equal(t, tt.wantSum, sumOf(subset))
			assert.LessOrEqual(t, sum, tt.target)
		})
	}
}

func TestSelectSubset_GreedyAboveThreshold(t *testing.T) {
	// Threshold of 2 forces the greedy path for three transactions.
	subset, sum := selectSubset(txnsOf(7000, 3000, 5000), 10000, 2)

	require.NotEmpty(t, subset)
	// Greedy descending: takes 7000, then 3000; 5000 no longer fits.
	assert.Equal(t, int64(10000), sum)
	assert.LessOrEqual(t, sum, int64(10000))
}

func TestSelectSubset_NeverExceedsTarget(t *testing.T) {
	amounts := []int64{123, 456, 789, 1011, 1213, 1415}
	for target := int64(100); target <= 5100; target += 250 {
		_, sum := selectSubset(txnsOf(amounts...), target, 18)
		assert.LessOrEqual(t, sum, target)
	}
}

func TestSelectSubset_GreedyNeverExceedsTarget(t *testing.T) {
	amounts := []int64{123, 456, 789, 1011, 1213, 1415}
	for target := int64(100); target <= 5100; target += 250 {
		exhaustive, exactSum := selectSubset(txnsOf(amounts...), target, 18)
		greedy, greedySum := selectSubset(txnsOf(amounts...), target, 2)
		assert.LessOrEqual(t, greedySum, target)
		// Greedy can never beat the exhaustive optimum.
		assert.LessOrEqual(t, greedySum, exactSum)
		assert.Equal(t, exactSum, sumOf(exhaustive))
		assert.Equal(t, greedySum, sumOf(greedy))
	}
}
