package draw

import (
	"context"

	"lottosim/bot/common"
	"lottosim/domain/entities"
	"lottosim/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleDraw posts the live message then starts the reveal in the background
func (f *Feature) handleDraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	session := f.sessions.Get(i.ChannelID)

	portfolio, err := session.Portfolio(events.PortfolioDraw)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to load draw portfolio"), false)
		return
	}
	if portfolio.Len() == 0 {
		common.HandleError(s, i, common.FromDomainError(entities.ErrEmptyPortfolio, "Draw requested without tickets"), false)
		return
	}
	if session.Draws().State() == entities.DrawRunning {
		common.HandleError(s, i, common.FromDomainError(entities.ErrAlreadyRunning, "Draw already running"), false)
		return
	}

	msg, err := common.RespondWithTrackedEmbed(s, i, CreateDrawStartingEmbed(portfolio.Len()), CreateStopComponents())
	if err != nil {
		log.WithError(err).WithField("channel_id", i.ChannelID).Error("Failed to post draw message")
		return
	}

	live := common.LiveMessage{ChannelID: i.ChannelID, MessageID: msg.ID}
	prev, had := f.live.Track(session.ID(), live)

	runID, err := session.StartDraw(context.Background())
	if err != nil {
		f.live.Restore(session.ID(), prev, had)
		botErr := common.FromDomainError(err, "Failed to start draw")
		if editErr := common.EditEmbed(f.client, live, CreateDrawFailedEmbed(botErr.UserMessage), nil); editErr != nil {
			log.WithError(editErr).Error("Failed to update draw message after start failure")
		}
		common.HandleError(s, i, botErr, true)
		return
	}
	f.live.Bind(session.ID(), live, runID)

	log.WithFields(log.Fields{
		"channel_id": i.ChannelID,
		"user_id":    common.InteractionUserID(i),
		"run_id":     runID,
		"tickets":    portfolio.Len(),
	}).Info("Draw started")
}

// handleStop cancels the running draw; from a button it just acknowledges
func (f *Feature) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate, fromButton bool) {
	session, ok := f.sessions.Lookup(i.ChannelID)
	if !ok || !session.StopDraw() {
		if fromButton {
			common.AcknowledgeComponent(s, i)
			return
		}
		common.HandleError(s, i, common.FromDomainError(entities.ErrNotRunning, "Stop requested without a running draw"), false)
		return
	}

	log.WithFields(log.Fields{
		"channel_id": i.ChannelID,
		"user_id":    common.InteractionUserID(i),
	}).Info("Draw stop requested")

	if fromButton {
		common.AcknowledgeComponent(s, i)
		return
	}
	if err := common.RespondWithSuccess(s, i, "Stopping the draw.", true); err != nil {
		log.WithError(err).Error("Failed to confirm draw stop")
	}
}
