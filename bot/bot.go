package bot

import (
	"fmt"
	"strings"
	"time"

	"lottosim/application"
	"lottosim/bot/common"
	"lottosim/bot/features/draw"
	"lottosim/bot/features/simulation"
	"lottosim/bot/features/tickets"
	"lottosim/domain/entities"
	"lottosim/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token          string
	GuildID        string
	UpdateInterval time.Duration
	DefaultStops   entities.TierSet
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config   Config
	session  *discordgo.Session
	sessions *application.SessionManager

	tickets     *tickets.Feature
	draws       *draw.Feature
	simulations *simulation.Feature

	commands    []*discordgo.ApplicationCommand
	unsubscribe []func()
}

// New creates a new bot instance with all features. Every channel gets its own
// lottery session, keyed by channel ID.
func New(config Config, sessions *application.SessionManager, bus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:   config,
		session:  dg,
		sessions: sessions,
	}

	bot.tickets = tickets.NewFeature(sessions)
	bot.draws = draw.NewFeature(sessions, dg)
	bot.simulations = simulation.NewFeature(sessions, dg, config.DefaultStops, config.UpdateInterval)

	bot.unsubscribe = append(bot.unsubscribe,
		bot.draws.Subscribe(bus),
		bot.simulations.Subscribe(bus),
	)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithFields(log.Fields{
			"user":   r.User.Username,
			"guilds": len(r.Guilds),
		}).Info("Discord session ready")
	})

	if err := dg.Open(); err != nil {
		bot.stopSubscriptions()
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		bot.stopSubscriptions()
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	b.stopSubscriptions()
	b.unregisterCommands()
	return b.session.Close()
}

func (b *Bot) stopSubscriptions() {
	for _, stop := range b.unsubscribe {
		stop()
	}
	b.unsubscribe = nil
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != common.CommandName {
		return
	}
	if len(data.Options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand")
		return
	}

	sub := data.Options[0]
	switch sub.Name {
	case "add", "random", "list", "clear", "prices":
		b.tickets.HandleSubcommand(s, i, sub)
	case "draw", "stopdraw":
		b.draws.HandleSubcommand(s, i, sub)
	case "simulate", "stopsim", "history", "clearhistory":
		b.simulations.HandleSubcommand(s, i, sub)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case customID == common.StopDrawComponentID:
		b.draws.HandleInteraction(s, i)
	case customID == common.StopSimComponentID:
		b.simulations.HandleInteraction(s, i)
	case strings.HasPrefix(customID, common.ComponentPrefix):
		log.Warnf("Unknown lottery component: %s", customID)
	}
}
