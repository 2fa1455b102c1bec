package tickets

import (
	"lottosim/application"
	"lottosim/bot/common"
	"lottosim/events"

	"github.com/bwmarrin/discordgo"
)

// Feature manages the ticket portfolios of each channel
type Feature struct {
	sessions *application.SessionManager
}

// NewFeature creates a new tickets feature instance
func NewFeature(sessions *application.SessionManager) *Feature {
	return &Feature{sessions: sessions}
}

// HandleSubcommand routes the ticket related /lotto subcommands
func (f *Feature) HandleSubcommand(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	options := common.OptionMap(sub.Options)

	var err error
	switch sub.Name {
	case "add":
		err = f.handleAdd(s, i, options)
	case "random":
		err = f.handleRandom(s, i, options)
	case "list":
		err = f.handleList(s, i, options)
	case "clear":
		err = f.handleClear(s, i, options)
	case "prices":
		err = common.RespondWithEmbed(s, i, CreatePricesEmbed(), nil, true)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
		return
	}

	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

// portfolioKind reads the optional mode option, defaulting to the draw portfolio
func portfolioKind(options map[string]*discordgo.ApplicationCommandInteractionDataOption) events.PortfolioKind {
	if opt, ok := options["mode"]; ok && opt.StringValue() == string(events.PortfolioSimulation) {
		return events.PortfolioSimulation
	}
	return events.PortfolioDraw
}
