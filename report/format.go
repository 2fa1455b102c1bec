package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"lottosim/domain/entities"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount in reais with thousand separators, e.g. "R$ 1,260.00"
func FormatMoney(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s.%s", sign, groupThousands(intPart), frac)
}

// FormatCount formats an integer with thousand separators
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + groupThousands(fmt.Sprintf("%d", -n))
	}
	return groupThousands(fmt.Sprintf("%d", n))
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// FormatProbability renders a percentage with enough digits for a six-number ticket
func FormatProbability(percent float64) string {
	return fmt.Sprintf("%.8f%%", percent)
}

// FormatOdds renders a percentage as "1 in N"
func FormatOdds(percent float64) string {
	if percent <= 0 {
		return "never"
	}
	return "1 in " + FormatCount(int64(math.Round(100/percent)))
}

// MatchLabel describes a match count the way results are shown to players
func MatchLabel(matches int) string {
	if tier := entities.TierFor(matches); tier.IsPrize() {
		return fmt.Sprintf("%d hits (%s)", matches, strings.ToUpper(tier.String()))
	}
	if matches == 1 {
		return "1 hit"
	}
	return fmt.Sprintf("%d hits", matches)
}

// SummaryLines renders a finished simulation as human readable lines
func SummaryLines(s entities.SimulationSummary) []string {
	lines := []string{
		fmt.Sprintf("Result: %s", StopReason(s)),
		fmt.Sprintf("Draws: %s", FormatCount(s.TrialsCompleted)),
		fmt.Sprintf("Tickets per draw: %d (%s per draw)", s.Portfolio.Count, FormatMoney(s.CostPerTrial)),
		fmt.Sprintf("Total spent: %s", FormatMoney(s.TotalCost)),
		fmt.Sprintf("Best match: %s", MatchLabel(s.BestMatchEver)),
		fmt.Sprintf("Quadras: %s  Quinas: %s  Senas: %s",
			FormatCount(s.TierCounts.Quadra), FormatCount(s.TierCounts.Quina), FormatCount(s.TierCounts.Sena)),
	}
	if s.HighestTier.IsPrize() {
		lines = append(lines,
			fmt.Sprintf("Cost per %s: %s", s.HighestTier, FormatMoney(s.CostPerOccurrence)),
			fmt.Sprintf("Draws per %s: ~%s", s.HighestTier, FormatCount(int64(math.Round(s.TrialsPerOccurrence)))),
		)
	}
	if s.Elapsed > 0 {
		lines = append(lines, fmt.Sprintf("Elapsed: %s", s.Elapsed.Round(time.Millisecond)))
	}
	if s.Error != "" {
		lines = append(lines, fmt.Sprintf("Error: %s", s.Error))
	}
	return lines
}

// StopReason explains why a simulation ended
func StopReason(s entities.SimulationSummary) string {
	switch s.State {
	case entities.SimulationStoppedByCondition:
		return fmt.Sprintf("stopped on %s", strings.ToUpper(s.TriggerTier.String()))
	case entities.SimulationStoppedByBudget:
		return fmt.Sprintf("budget of %s draws reached", FormatCount(s.Config.MaxTrials))
	case entities.SimulationCancelled:
		return "stopped by user"
	case entities.SimulationFailed:
		return "failed"
	default:
		return s.State.String()
	}
}
