package bot

import (
	"fmt"

	"lottosim/bot/common"
	"lottosim/domain/pricing"
	"lottosim/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func modeOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "mode",
		Description: "Which portfolio to use (default: draw)",
		Required:    false,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "Manual draw", Value: string(events.PortfolioDraw)},
			{Name: "Simulation", Value: string(events.PortfolioSimulation)},
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// lottoCommand describes the /lotto command group
func lottoCommand() *discordgo.ApplicationCommand {
	minSize := float64(pricing.MinTicketSize)
	maxSize := float64(pricing.MaxTicketSize)

	return &discordgo.ApplicationCommand{
		Name:        common.CommandName,
		Description: "Mega-Sena draws and simulations",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a ticket with your own numbers",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "numbers",
						Description: "6 to 20 numbers from 1 to 60, separated by spaces or commas",
						Required:    true,
					},
					modeOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "random",
				Description: "Add a ticket with random numbers",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "size",
						Description: "How many numbers (random size when omitted)",
						Required:    false,
						MinValue:    &minSize,
						MaxValue:    maxSize,
					},
					modeOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List your tickets",
				Options:     []*discordgo.ApplicationCommandOption{modeOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "clear",
				Description: "Remove all tickets",
				Options:     []*discordgo.ApplicationCommandOption{modeOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "prices",
				Description: "Show ticket prices and odds",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "draw",
				Description: "Draw six numbers against your tickets",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stopdraw",
				Description: "Stop the running draw",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "simulate",
				Description: "Play your simulation tickets draw after draw",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "max_trials",
						Description: "Stop after this many draws (0 for no limit)",
						Required:    false,
						MinValue:    floatPtr(0),
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "stop_quadra",
						Description: "Stop on the first quadra",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "stop_quina",
						Description: "Stop on the first quina",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "stop_sena",
						Description: "Stop on the first sena",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stopsim",
				Description: "Stop the running simulation",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "history",
				Description: "Show the most recent simulated draws",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "count",
						Description: "How many draws to show",
						Required:    false,
						MinValue:    floatPtr(1),
						MaxValue:    common.MaxHistoryCount,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "clearhistory",
				Description: "Forget the simulated draw history",
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{lottoCommand()}

	for _, cmd := range commands {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
	}

	return nil
}

// unregisterCommands removes guild commands on shutdown; global ones are left in place
func (b *Bot) unregisterCommands() {
	if b.config.GuildID == "" {
		return
	}
	for _, cmd := range b.commands {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
			log.WithError(err).WithField("command", cmd.Name).Warn("Failed to delete command")
		}
	}
	b.commands = nil
}
