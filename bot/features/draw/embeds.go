package draw

import (
	"fmt"
	"strings"

	"lottosim/bot/common"
	"lottosim/domain/entities"
	"lottosim/domain/pricing"
	"lottosim/events"
	"lottosim/report"

	"github.com/bwmarrin/discordgo"
)

// CreateDrawStartingEmbed is shown before the first number comes out
func CreateDrawStartingEmbed(ticketCount int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎱 Draw starting",
		Color:       common.ColorInfo,
		Description: common.FormatHiddenBalls(nil, pricing.DrawSize),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tickets", Value: fmt.Sprintf("%d", ticketCount), Inline: true},
		},
	}
}

// CreateRevealEmbed shows the numbers revealed so far and, once enough are
// out, how each ticket is doing
func CreateRevealEmbed(ev events.DrawNumberRevealedEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎱 Drawing... %d/%d", ev.Index, pricing.DrawSize),
		Color:       common.ColorInfo,
		Description: common.FormatHiddenBalls(ev.SortedSoFar, pricing.DrawSize),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Latest", Value: fmt.Sprintf("`%02d`", ev.Number), Inline: true},
		},
	}

	if ev.Waiting {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Status",
			Value: "Waiting for more numbers...",
		})
		return embed
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Tickets",
		Value: resultLines(ev.Results),
	})
	return embed
}

// CreateDrawResultEmbed is the final report of a completed draw
func CreateDrawResultEmbed(result entities.DrawResult) *discordgo.MessageEmbed {
	color := common.ColorInfo
	title := "🎱 Draw complete"
	if winners := result.Winners(); len(winners) > 0 {
		color = common.ColorGold
		title = fmt.Sprintf("🏆 Draw complete - %d winning ticket(s)", len(winners))
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Color:       color,
		Description: common.FormatBalls(result.Sorted),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Draw order", Value: common.FormatBalls(result.Order)},
			{Name: "Tickets", Value: resultLines(result.Tickets)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Run " + result.RunID},
	}
}

// CreateDrawCancelledEmbed replaces the live message when a draw is stopped
func CreateDrawCancelledEmbed(ev events.DrawCancelledEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🛑 Draw stopped",
		Color:       common.ColorWarning,
		Description: common.FormatHiddenBalls(ev.Revealed, pricing.DrawSize),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Run " + ev.RunID},
	}
}

// CreateDrawFailedEmbed replaces the live message when the draw could not start
func CreateDrawFailedEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Draw not started",
		Color:       common.ColorError,
		Description: message,
	}
}

func resultLines(results []entities.TicketResult) string {
	if len(results) == 0 {
		return "-"
	}
	lines := make([]string, 0, len(results))
	for idx, r := range results {
		if idx == common.MaxTicketsPerListing {
			lines = append(lines, fmt.Sprintf("...and %d more", len(results)-idx))
			break
		}
		marker := ""
		if r.Tier.IsPrize() {
			marker = " 🎉"
		}
		lines = append(lines, fmt.Sprintf("**#%d** %s%s", r.Position, report.MatchLabel(r.Matches), marker))
	}
	return common.Truncate(strings.Join(lines, "\n"), common.MaxFieldLength)
}
