package simulation

import (
	"context"
	"sync"
	"time"

	"lottosim/application"
	"lottosim/bot/common"
	"lottosim/domain/entities"
	"lottosim/events"
	"lottosim/report"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature runs Monte-Carlo simulations and keeps a throttled status message
type Feature struct {
	sessions       *application.SessionManager
	client         common.MessageClient
	live           *common.LiveMessages
	charts         *report.ChartGenerator
	defaultStops   entities.TierSet
	updateInterval time.Duration
	now            func() time.Time

	mu       sync.Mutex
	lastEdit map[string]time.Time
}

// NewFeature creates a new simulation feature instance
func NewFeature(sessions *application.SessionManager, client common.MessageClient, defaultStops entities.TierSet, updateInterval time.Duration) *Feature {
	return &Feature{
		sessions:       sessions,
		client:         client,
		live:           common.NewLiveMessages(),
		charts:         report.NewChartGenerator(),
		defaultStops:   defaultStops,
		updateInterval: updateInterval,
		now:            time.Now,
		lastEdit:       make(map[string]time.Time),
	}
}

// HandleSubcommand routes the simulation related /lotto subcommands
func (f *Feature) HandleSubcommand(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	options := common.OptionMap(sub.Options)

	switch sub.Name {
	case "simulate":
		f.handleSimulate(s, i, options)
	case "stopsim":
		f.handleStop(s, i, false)
	case "history":
		f.handleHistory(s, i, options)
	case "clearhistory":
		f.handleClearHistory(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleInteraction handles the stop button on a live simulation message
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if i.MessageComponentData().CustomID == common.StopSimComponentID {
		f.handleStop(s, i, true)
	}
}

// Subscribe keeps live messages in step with simulation events on the bus
func (f *Feature) Subscribe(bus *events.Bus) func() {
	return bus.Subscribe(f.HandleEvent,
		events.EventTypeSimulationStarted,
		events.EventTypeSimulationProgress,
		events.EventTypeSimulationFinished,
	)
}

// HandleEvent edits the live message tracked for the event's run. Progress
// edits are limited to one per update interval.
func (f *Feature) HandleEvent(ctx context.Context, event events.Event) {
	switch ev := event.(type) {
	case events.SimulationStartedEvent:
		msg, ok := f.live.ForRun(ev.SessionID, ev.RunID, true)
		if !ok {
			return
		}
		f.markEdited(ev.SessionID)
		f.edit(msg, ev.SessionID, CreateStartedEmbed(ev), CreateStopComponents())

	case events.SimulationProgressEvent:
		msg, ok := f.live.ForRun(ev.SessionID, ev.Snapshot.RunID, false)
		if !ok || !f.dueForEdit(ev.SessionID) {
			return
		}
		f.edit(msg, ev.SessionID, CreateProgressEmbed(ev.Snapshot), CreateStopComponents())

	case events.SimulationFinishedEvent:
		msg, ok := f.live.ForRun(ev.SessionID, ev.Summary.RunID, false)
		if !ok {
			return
		}
		f.live.Release(ev.SessionID, msg)
		f.forget(ev.SessionID)
		f.edit(msg, ev.SessionID, CreateSummaryEmbed(ev.Summary), nil)
		f.postChart(msg, ev.Summary)
	}
}

func (f *Feature) edit(msg common.LiveMessage, sessionID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	if err := common.EditEmbed(f.client, msg, embed, components); err != nil {
		log.WithFields(log.Fields{
			"session_id": sessionID,
			"message_id": msg.MessageID,
			"error":      err,
		}).Error("Failed to update simulation message")
	}
}

// postChart sends the match histogram of a finished run as a reply
func (f *Feature) postChart(msg common.LiveMessage, summary entities.SimulationSummary) {
	if summary.TrialsCompleted == 0 {
		return
	}

	png, err := f.charts.GenerateSimulationChart(summary)
	if err != nil {
		log.WithError(err).WithField("run_id", summary.RunID).Error("Failed to render simulation chart")
		return
	}

	_, err = f.client.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{CreateChartEmbed(summary)},
		Files:  []*discordgo.File{common.PNGFile(common.ChartAttachmentName, png)},
		Reference: &discordgo.MessageReference{
			MessageID: msg.MessageID,
			ChannelID: msg.ChannelID,
		},
	})
	if err != nil {
		log.WithError(err).WithField("run_id", summary.RunID).Error("Failed to post simulation chart")
	}
}

func (f *Feature) dueForEdit(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	if last, ok := f.lastEdit[sessionID]; ok && now.Sub(last) < f.updateInterval {
		return false
	}
	f.lastEdit[sessionID] = now
	return true
}

func (f *Feature) markEdited(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastEdit[sessionID] = f.now()
}

func (f *Feature) forget(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lastEdit, sessionID)
}
