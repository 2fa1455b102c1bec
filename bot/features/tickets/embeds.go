package tickets

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

func portfolioTitle(kind events.PortfolioKind) string {
	if kind == events.PortfolioSimulation {
		return "Simulation tickets"
	}
	return "Draw tickets"
}

// CreateTicketAddedEmbed confirms a new ticket and shows the portfolio totals
func CreateTicketAddedEmbed(kind events.PortfolioKind, position int, ticket *entities.Ticket, totals entities.PortfolioTotals) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎟️ Ticket #%d added", position),
		Color:       common.ColorSuccess,
		Description: common.FormatBalls(ticket.Numbers()),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Numbers", Value: fmt.Sprintf("%d", ticket.Size()), Inline: true},
			{Name: "Price", Value: report.FormatMoney(ticket.Price()), Inline: true},
			{Name: "Chance", Value: report.FormatOdds(ticket.WinProbability()), Inline: true},
			{Name: portfolioTitle(kind), Value: totalsLine(totals), Inline: false},
		},
	}
}

// CreatePortfolioEmbed lists the tickets of a portfolio with their totals
func CreatePortfolioEmbed(kind events.PortfolioKind, tickets []*entities.Ticket) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: portfolioTitle(kind),
		Color: common.ColorInfo,
	}
	if len(tickets) == 0 {
		embed.Description = "No tickets yet. Use `/lotto add` or `/lotto random`."
		return embed
	}

	lines := make([]string, 0, len(tickets))
	for idx, t := range tickets {
		if idx == common.MaxTicketsPerListing {
			lines = append(lines, fmt.Sprintf("...and %d more", len(tickets)-idx))
			break
		}
		lines = append(lines, fmt.Sprintf("**#%d** %s · %s", idx+1, common.FormatBalls(t.Numbers()), report.FormatMoney(t.Price())))
	}
	embed.Description = common.Truncate(strings.Join(lines, "\n"), 4096)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Totals", Value: totalsLine(entities.TotalsOf(tickets))},
	}
	return embed
}

// CreateClearedEmbed reports how many tickets were removed
func CreateClearedEmbed(kind events.PortfolioKind, removed int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s cleared", portfolioTitle(kind)),
		Color:       common.ColorWarning,
		Description: fmt.Sprintf("Removed %d ticket(s).", removed),
	}
}

// CreatePricesEmbed shows the price and win chance of every ticket size
func CreatePricesEmbed() *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString("```\nSize        Price      Chance\n")
	for _, row := range pricing.Table() {
		fmt.Fprintf(&b, "%4d %12s  %s\n", row.Size, report.FormatMoney(row.Price), report.FormatOdds(row.Probability))
	}
	b.WriteString("```")

	return &discordgo.MessageEmbed{
		Title:       "Ticket prices",
		Color:       common.ColorPrimary,
		Description: b.String(),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s possible draws", report.FormatCount(pricing.TotalCombinations())),
		},
	}
}

func totalsLine(totals entities.PortfolioTotals) string {
	return fmt.Sprintf("%d ticket(s) · %s · %s",
		totals.Count, report.FormatMoney(totals.Price), report.FormatProbability(totals.Probability))
}
