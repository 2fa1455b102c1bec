package simulation

import (
	"fmt"
	"strings"

	"lottosim/bot/common"
	"lottosim/domain/entities"
	"lottosim/events"
	"lottosim/report"

	"github.com/bwmarrin/discordgo"
)

func budgetLabel(maxTrials int64) string {
	if maxTrials == 0 {
		return "unlimited"
	}
	return report.FormatCount(maxTrials)
}

func configFields(cfg entities.SimulationConfig, totals entities.PortfolioTotals) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: "Tickets per draw", Value: fmt.Sprintf("%d (%s)", totals.Count, report.FormatMoney(totals.Price)), Inline: true},
		{Name: "Budget", Value: budgetLabel(cfg.MaxTrials), Inline: true},
		{Name: "Stop on", Value: cfg.StopTiers.String(), Inline: true},
	}
}

// CreatePendingEmbed is posted before the engine has started
func CreatePendingEmbed(cfg entities.SimulationConfig, totals entities.PortfolioTotals) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:  "🎰 Simulation starting",
		Color:  common.ColorInfo,
		Fields: configFields(cfg, totals),
	}
}

// CreateStartedEmbed confirms the run with its frozen portfolio
func CreateStartedEmbed(ev events.SimulationStartedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:  "🎰 Simulation running",
		Color:  common.ColorInfo,
		Fields: configFields(ev.Config, ev.Portfolio),
		Footer: &discordgo.MessageEmbedFooter{Text: "Run " + ev.RunID},
	}
}

// CreateProgressEmbed shows the running counters of a simulation
func CreateProgressEmbed(snap entities.SimulationSnapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎰 Simulating... %s draws", report.FormatCount(snap.TrialsCompleted)),
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Spent", Value: report.FormatMoney(snap.TotalCost), Inline: true},
			{Name: "Best match", Value: report.MatchLabel(snap.BestMatchEver), Inline: true},
			{Name: "Elapsed", Value: common.FormatDuration(snap.Elapsed), Inline: true},
			{Name: "Prizes", Value: tierCountsLine(snap.TierCounts)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Run " + snap.RunID},
	}
	if snap.LastTrial != nil {
		embed.Description = "Last draw: " + common.FormatBalls(snap.LastTrial.Draw)
	}
	return embed
}

// CreateSummaryEmbed is the final report of a simulation
func CreateSummaryEmbed(s entities.SimulationSummary) *discordgo.MessageEmbed {
	color := common.ColorInfo
	switch {
	case s.State == entities.SimulationFailed:
		color = common.ColorError
	case s.State == entities.SimulationCancelled:
		color = common.ColorWarning
	case s.HighestTier == entities.TierSena:
		color = common.ColorGold
	case s.State == entities.SimulationStoppedByCondition:
		color = common.ColorSuccess
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Draws", Value: report.FormatCount(s.TrialsCompleted), Inline: true},
		{Name: "Total spent", Value: report.FormatMoney(s.TotalCost), Inline: true},
		{Name: "Per draw", Value: report.FormatMoney(s.CostPerTrial), Inline: true},
		{Name: "Best match", Value: report.MatchLabel(s.BestMatchEver), Inline: true},
		{Name: "Elapsed", Value: common.FormatDuration(s.Elapsed), Inline: true},
		{Name: "Prizes", Value: tierCountsLine(s.TierCounts)},
	}
	if s.HighestTier.IsPrize() {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Cost per %s", s.HighestTier),
			Value: fmt.Sprintf("%s (about one every %s draws)",
				report.FormatMoney(s.CostPerOccurrence), report.FormatCount(int64(s.TrialsPerOccurrence+0.5))),
		})
	}
	if s.Error != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Error", Value: common.Truncate(s.Error, common.MaxFieldLength)})
	}

	return &discordgo.MessageEmbed{
		Title:       "🎰 Simulation finished",
		Description: "Result: " + report.StopReason(s),
		Color:       color,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Run " + s.RunID},
	}
}

// CreateChartEmbed frames the histogram attachment
func CreateChartEmbed(s entities.SimulationSummary) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Match distribution",
		Color: common.ColorPrimary,
		Image: &discordgo.MessageEmbedImage{URL: "attachment://" + common.ChartAttachmentName},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s draws × %d ticket(s)", report.FormatCount(s.TrialsCompleted), s.Portfolio.Count),
		},
	}
}

// CreateFailedEmbed replaces the live message when a run could not start
func CreateFailedEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Simulation not started",
		Color:       common.ColorError,
		Description: message,
	}
}

// CreateHistoryEmbed lists recent trials, oldest first
func CreateHistoryEmbed(records []entities.TrialRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Recent simulated draws",
		Color: common.ColorInfo,
	}
	if len(records) == 0 {
		embed.Description = "No simulated draws yet."
		return embed
	}

	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("**%s** %s · %s", report.FormatCount(r.Index), common.FormatBalls(r.Draw), report.MatchLabel(r.Best))
	}
	embed.Description = common.Truncate(strings.Join(lines, "\n"), 4096)
	return embed
}

// CreateStopComponents creates the stop button shown while a simulation runs
func CreateStopComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Stop simulation",
					Style:    discordgo.DangerButton,
					CustomID: common.StopSimComponentID,
				},
			},
		},
	}
}

func tierCountsLine(c entities.TierCounts) string {
	return fmt.Sprintf("Quadra: %s · Quina: %s · Sena: %s",
		report.FormatCount(c.Quadra), report.FormatCount(c.Quina), report.FormatCount(c.Sena))
}
