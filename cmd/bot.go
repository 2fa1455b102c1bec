package cmd

import (
	"context"
	"fmt"
	"time"

	"lottosim/application"
	"lottosim/bot"
	"lottosim/config"
	"lottosim/domain/interfaces"
	"lottosim/domain/random"
	"lottosim/events"
	"lottosim/infrastructure"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBotCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), a.cfg)
		},
	}
}

// runBot initializes and starts the Discord bot
func runBot(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting lottosim bot...")

	if err := cfg.ValidateForBot(); err != nil {
		return err
	}
	stops, err := cfg.StopTiers()
	if err != nil {
		return err
	}

	// Initialize event bus
	eventBus := events.NewBus()
	defer eventBus.Close()

	reporter := application.NewConsoleReporter(eventBus, cfg.ProgressLogInterval, log.StandardLogger())
	stopReporter := reporter.Start(ctx)
	defer stopReporter()

	// Remote event publishing
	var remote interfaces.EventPublisher = infrastructure.NewNoopEventPublisher()
	if cfg.NATSEnabled {
		natsClient, publisher, err := connectNATS(ctx, cfg)
		if err != nil {
			return err
		}
		defer natsClient.Close()
		remote = publisher
	} else {
		log.Info("NATS disabled, events stay in process")
	}
	stopForwarding := infrastructure.Forward(eventBus, remote)
	defer stopForwarding()

	sessions := application.NewSessionManager(random.NewCryptoSource(), eventBus, application.SessionConfig{
		RevealDelay:  cfg.RevealDelay,
		TrialPause:   cfg.TrialPause,
		HistoryLimit: cfg.HistoryLimit,
	})

	// Initialize Discord bot
	discordBot, err := bot.New(bot.Config{
		Token:          cfg.DiscordToken,
		GuildID:        cfg.DiscordGuildID,
		UpdateInterval: cfg.DiscordUpdateInterval,
		DefaultStops:   stops,
	}, sessions, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	// Give running draws and simulations time to wind down
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sessions.CloseAll(shutdownCtx)

	log.Info("Shutdown completed")
	return nil
}

func connectNATS(ctx context.Context, cfg *config.Config) (*infrastructure.NATSClient, *infrastructure.NATSEventPublisher, error) {
	client := infrastructure.NewNATSClient("lottosim", cfg.NATSServers)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return nil, nil, err
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := infrastructure.EnsureLotteryEventStream(client, mapper); err != nil {
		log.WithError(err).Warn("Failed to ensure lottery event stream")
	}

	return client, infrastructure.NewNATSEventPublisher(client, mapper, cfg.ProgressLogInterval), nil
}
