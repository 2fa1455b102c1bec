package simulation

import (
	"context"
	"errors"

	"lottosim/bot/common"
	"lottosim/domain/entities"
	"lottosim/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var stopOptions = map[string]entities.Tier{
	"stop_quadra": entities.TierQuadra,
	"stop_quina":  entities.TierQuina,
	"stop_sena":   entities.TierSena,
}

// ConfigFromOptions builds the run configuration; stop options the user
// leaves out keep their default
func ConfigFromOptions(defaults entities.TierSet, options map[string]*discordgo.ApplicationCommandInteractionDataOption) (entities.SimulationConfig, error) {
	cfg := entities.SimulationConfig{}
	if opt, ok := options["max_trials"]; ok {
		cfg.MaxTrials = opt.IntValue()
	}

	enabled := make(map[entities.Tier]bool, len(entities.PrizeTiers))
	for _, tier := range entities.PrizeTiers {
		enabled[tier] = defaults.Has(tier)
	}
	for name, tier := range stopOptions {
		if opt, ok := options[name]; ok {
			enabled[tier] = opt.BoolValue()
		}
	}

	var tiers []entities.Tier
	for _, tier := range entities.PrizeTiers {
		if enabled[tier] {
			tiers = append(tiers, tier)
		}
	}

	stops, err := entities.NewTierSet(tiers...)
	if err != nil {
		return cfg, err
	}
	cfg.StopTiers = stops
	return cfg, cfg.Validate()
}

func (f *Feature) handleSimulate(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	cfg, err := ConfigFromOptions(f.defaultStops, options)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Invalid simulation options"), false)
		return
	}

	session := f.sessions.Get(i.ChannelID)
	portfolio, err := session.Portfolio(events.PortfolioSimulation)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to load simulation portfolio"), false)
		return
	}
	if portfolio.Len() == 0 {
		common.HandleError(s, i, common.FromDomainError(entities.ErrEmptyPortfolio, "Simulation requested without tickets"), false)
		return
	}
	if session.Simulation().State() == entities.SimulationRunning {
		common.HandleError(s, i, common.FromDomainError(entities.ErrAlreadyRunning, "Simulation already running"), false)
		return
	}

	msg, err := common.RespondWithTrackedEmbed(s, i, CreatePendingEmbed(cfg, portfolio.Totals()), CreateStopComponents())
	if err != nil {
		log.WithError(err).WithField("channel_id", i.ChannelID).Error("Failed to post simulation message")
		return
	}

	live := common.LiveMessage{ChannelID: i.ChannelID, MessageID: msg.ID}
	prev, had := f.live.Track(session.ID(), live)

	runID, err := session.StartSimulation(context.Background(), cfg)
	if err != nil {
		f.live.Restore(session.ID(), prev, had)
		botErr := common.FromDomainError(err, "Failed to start simulation")
		if editErr := common.EditEmbed(f.client, live, CreateFailedEmbed(botErr.UserMessage), nil); editErr != nil {
			log.WithError(editErr).Error("Failed to update simulation message after start failure")
		}
		common.HandleError(s, i, botErr, true)
		return
	}
	f.live.Bind(session.ID(), live, runID)

	log.WithFields(log.Fields{
		"channel_id": i.ChannelID,
		"user_id":    common.InteractionUserID(i),
		"run_id":     runID,
		"max_trials": cfg.MaxTrials,
		"stop_tiers": cfg.StopTiers.String(),
	}).Info("Simulation started")
}

func (f *Feature) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate, fromButton bool) {
	session, ok := f.sessions.Lookup(i.ChannelID)
	if !ok || !session.StopSimulation() {
		if fromButton {
			common.AcknowledgeComponent(s, i)
			return
		}
		common.HandleError(s, i, common.FromDomainError(entities.ErrNotRunning, "Stop requested without a running simulation"), false)
		return
	}

	log.WithFields(log.Fields{
		"channel_id": i.ChannelID,
		"user_id":    common.InteractionUserID(i),
	}).Info("Simulation stop requested")

	if fromButton {
		common.AcknowledgeComponent(s, i)
		return
	}
	if err := common.RespondWithSuccess(s, i, "Stopping the simulation.", true); err != nil {
		log.WithError(err).Error("Failed to confirm simulation stop")
	}
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	count := common.DefaultHistoryCount
	if opt, ok := options["count"]; ok {
		count = int(opt.IntValue())
	}
	if count < 1 || count > common.MaxHistoryCount {
		common.HandleError(s, i, common.NewUserError("Count must be between 1 and 25.", "History count out of range"), false)
		return
	}

	var records []entities.TrialRecord
	if session, ok := f.sessions.Lookup(i.ChannelID); ok {
		records = session.Simulation().History(count)
	}

	if err := common.RespondWithEmbed(s, i, CreateHistoryEmbed(records), nil, true); err != nil {
		log.WithError(err).Error("Failed to send simulation history")
	}
}

func (f *Feature) handleClearHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	session, ok := f.sessions.Lookup(i.ChannelID)
	if ok {
		if err := session.Simulation().ClearHistory(); err != nil {
			if errors.Is(err, entities.ErrAlreadyRunning) {
				common.HandleError(s, i, common.NewUserError("Stop the running simulation before clearing its history.", "Clear history while running"), false)
				return
			}
			common.HandleError(s, i, common.NewSystemError(err, "Failed to clear history"), false)
			return
		}
	}

	if err := common.RespondWithSuccess(s, i, "Simulation history cleared.", true); err != nil {
		log.WithError(err).Error("Failed to confirm history clear")
	}
}
