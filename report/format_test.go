package report

import (
	"strings"
	"testing"
	"time"

	"lottosim/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"6", "R$ 6.00"},
		{"1260", "R$ 1,260.00"},
		{"232560", "R$ 232,560.00"},
		{"1234567.891", "R$ 1,234,567.89"},
		{"-42", "-R$ 42.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
	}
}

func TestFormatCountAndOdds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "50,063,860", FormatCount(50063860))
	assert.Equal(t, "-1,000", FormatCount(-1000))
	assert.Equal(t, "1 in 50,063,860", FormatOdds(100.0/50063860.0))
	assert.Equal(t, "never", FormatOdds(0))
	assert.Equal(t, "0.00000200%", FormatProbability(0.000002))
}

func TestMatchLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 hit", MatchLabel(1))
	assert.Equal(t, "3 hits", MatchLabel(3))
	assert.Equal(t, "4 hits (QUADRA)", MatchLabel(4))
	assert.Equal(t, "6 hits (SENA)", MatchLabel(6))
}

func TestSummaryLines(t *testing.T) {
	t.Parallel()

	summary := entities.SimulationSummary{
		SimulationSnapshot: entities.SimulationSnapshot{
			State:           entities.SimulationStoppedByCondition,
			TrialsCompleted: 2500,
			BestMatchEver:   5,
			TierCounts:      entities.TierCounts{Quadra: 12, Quina: 1},
			CostPerTrial:    decimal.NewFromInt(60),
			TotalCost:       decimal.NewFromInt(150000),
			Elapsed:         1500 * time.Millisecond,
		},
		TriggerTier:         entities.TierQuina,
		HighestTier:         entities.TierQuina,
		CostPerOccurrence:   decimal.NewFromInt(150000),
		TrialsPerOccurrence: 2500,
		Portfolio:           entities.PortfolioTotals{Count: 10},
	}

	text := strings.Join(SummaryLines(summary), "\n")
	assert.Contains(t, text, "stopped on QUINA")
	assert.Contains(t, text, "Draws: 2,500")
	assert.Contains(t, text, "Total spent: R$ 150,000.00")
	assert.Contains(t, text, "Cost per quina: R$ 150,000.00")
	assert.Contains(t, text, "Draws per quina: ~2,500")
	assert.Contains(t, text, "Elapsed: 1.5s")

	summary.State = entities.SimulationStoppedByBudget
	summary.Config.MaxTrials = 2500
	assert.Equal(t, "budget of 2,500 draws reached", StopReason(summary))
}
