package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TicketResult is how one ticket fared against a draw
type TicketResult struct {
	Position int   `json:"position"`
	Numbers  []int `json:"numbers"`
	Matches  int   `json:"matches"`
	Tier     Tier  `json:"tier"`
}

// EvaluateTickets scores every ticket against d
func EvaluateTickets(tickets []*Ticket, d Draw) []TicketResult {
	results := make([]TicketResult, len(tickets))
	for i, t := range tickets {
		matches := t.Matches(d)
		results[i] = TicketResult{
			Position: i + 1,
			Numbers:  t.Numbers(),
			Matches:  matches,
			Tier:     TierFor(matches),
		}
	}
	return results
}

// DrawResult summarises a completed single draw
type DrawResult struct {
	RunID   string         `json:"run_id"`
	Order   []int          `json:"order"`
	Sorted  []int          `json:"sorted"`
	Tickets []TicketResult `json:"tickets"`
}

// Winners returns the results that reached a prize tier
func (r *DrawResult) Winners() []TicketResult {
	var out []TicketResult
	for _, tr := range r.Tickets {
		if tr.Tier.IsPrize() {
			out = append(out, tr)
		}
	}
	return out
}

// SimulationConfig bounds a Monte-Carlo run. MaxTrials of zero means no
// budget; an empty StopTiers never stops early.
type SimulationConfig struct {
	MaxTrials int64   `json:"max_trials"`
	StopTiers TierSet `json:"stop_tiers"`
}

// Validate rejects negative budgets and unknown tiers
func (c SimulationConfig) Validate() error {
	if c.MaxTrials < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTrialBudget, c.MaxTrials)
	}
	var known TierSet
	for _, t := range PrizeTiers {
		known |= 1 << uint(t)
	}
	if c.StopTiers&^known != 0 {
		return fmt.Errorf("%w: %08b", ErrInvalidStopTier, uint8(c.StopTiers))
	}
	return nil
}

// TrialRecord is one simulated draw kept in the bounded history
type TrialRecord struct {
	Index   int64 `json:"index"`
	Draw    []int `json:"draw"`
	Matches []int `json:"matches"`
	Best    int   `json:"best"`
	Tier    Tier  `json:"tier"`
}

// SimulationSnapshot is the running state of a simulation at a point in time
type SimulationSnapshot struct {
	RunID           string          `json:"run_id"`
	State           SimulationState `json:"state"`
	TrialsCompleted int64           `json:"trials_completed"`
	BestMatchEver   int             `json:"best_match_ever"`
	TierCounts      TierCounts      `json:"tier_counts"`
	MatchHistogram  [7]int64        `json:"match_histogram"`
	CostPerTrial    decimal.Decimal `json:"cost_per_trial"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Elapsed         time.Duration   `json:"elapsed"`
	LastTrial       *TrialRecord    `json:"last_trial,omitempty"`
}

// SimulationSummary is the final report of a finished simulation
type SimulationSummary struct {
	SimulationSnapshot
	Config              SimulationConfig `json:"config"`
	TriggerTier         Tier             `json:"trigger_tier"`
	HighestTier         Tier             `json:"highest_tier"`
	CostPerOccurrence   decimal.Decimal  `json:"cost_per_occurrence"`
	TrialsPerOccurrence float64          `json:"trials_per_occurrence"`
	Portfolio           PortfolioTotals  `json:"portfolio"`
	Error               string           `json:"error,omitempty"`
}

// Summarize derives the final report from the last snapshot
func Summarize(snap SimulationSnapshot, cfg SimulationConfig, trigger Tier, portfolio PortfolioTotals) SimulationSummary {
	summary := SimulationSummary{
		SimulationSnapshot: snap,
		Config:             cfg,
		TriggerTier:        trigger,
		HighestTier:        snap.TierCounts.Highest(),
		CostPerOccurrence:  decimal.Zero,
		Portfolio:          portfolio,
	}
	if count := snap.TierCounts.Get(summary.HighestTier); count > 0 {
		summary.CostPerOccurrence = snap.TotalCost.Div(decimal.NewFromInt(count)).Round(2)
		summary.TrialsPerOccurrence = float64(snap.TrialsCompleted) / float64(count)
	}
	return summary
}

// EvaluatePartial scores every ticket against the numbers revealed so far
func EvaluatePartial(tickets []*Ticket, revealed []int) []TicketResult {
	results := make([]TicketResult, len(tickets))
	for i, t := range tickets {
		matches := CountMatches(t.numbers, revealed)
		results[i] = TicketResult{
			Position: i + 1,
			Numbers:  t.Numbers(),
			Matches:  matches,
			Tier:     TierFor(matches),
		}
	}
	return results
}

// DefaultSimulationConfig runs until the first sena with no trial budget
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{StopTiers: DefaultStopTiers()}
}
