package tickets

import (
	"lottosim/bot/common"
	"lottosim/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	opt, ok := options["numbers"]
	if !ok {
		return common.NewUserError("Please provide the ticket numbers.", "add without numbers")
	}

	numbers, err := entities.ParseNumbers(opt.StringValue())
	if err != nil {
		return common.FromDomainError(err, "Failed to parse ticket numbers")
	}

	kind := portfolioKind(options)
	session := f.sessions.Get(i.ChannelID)
	ticket, position, err := session.AddTicket(kind, numbers)
	if err != nil {
		return common.FromDomainError(err, "Failed to add ticket")
	}

	portfolio, err := session.Portfolio(kind)
	if err != nil {
		return common.NewSystemError(err, "Failed to load portfolio")
	}

	log.WithFields(log.Fields{
		"channel_id": i.ChannelID,
		"user_id":    common.InteractionUserID(i),
		"portfolio":  kind,
		"size":       ticket.Size(),
	}).Info("Ticket added")

	return common.RespondWithEmbed(s, i, CreateTicketAddedEmbed(kind, position, ticket, portfolio.Totals()), nil, false)
}

func (f *Feature) handleRandom(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	size := 0
	if opt, ok := options["size"]; ok {
		size = int(opt.IntValue())
	}

	kind := portfolioKind(options)
	session := f.sessions.Get(i.ChannelID)
	ticket, position, err := session.AddRandomTicket(kind, size)
	if err != nil {
		return common.FromDomainError(err, "Failed to add random ticket")
	}

	portfolio, err := session.Portfolio(kind)
	if err != nil {
		return common.NewSystemError(err, "Failed to load portfolio")
	}

	return common.RespondWithEmbed(s, i, CreateTicketAddedEmbed(kind, position, ticket, portfolio.Totals()), nil, false)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	kind := portfolioKind(options)
	portfolio, err := f.sessions.Get(i.ChannelID).Portfolio(kind)
	if err != nil {
		return common.NewSystemError(err, "Failed to load portfolio")
	}

	return common.RespondWithEmbed(s, i, CreatePortfolioEmbed(kind, portfolio.Tickets()), nil, true)
}

func (f *Feature) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	kind := portfolioKind(options)
	removed, err := f.sessions.Get(i.ChannelID).ClearTickets(kind)
	if err != nil {
		return common.NewSystemError(err, "Failed to clear portfolio")
	}

	return common.RespondWithEmbed(s, i, CreateClearedEmbed(kind, removed), nil, false)
}
