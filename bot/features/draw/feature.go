package draw

import (
	"context"

	"lottosim/application"
	"lottosim/bot/common"
	"lottosim/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature runs animated single draws and mirrors them in a Discord message
type Feature struct {
	sessions *application.SessionManager
	client   common.MessageClient
	live     *common.LiveMessages
}

// NewFeature creates a new draw feature instance
func NewFeature(sessions *application.SessionManager, client common.MessageClient) *Feature {
	return &Feature{
		sessions: sessions,
		client:   client,
		live:     common.NewLiveMessages(),
	}
}

// HandleSubcommand routes the draw related /lotto subcommands
func (f *Feature) HandleSubcommand(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	switch sub.Name {
	case "draw":
		f.handleDraw(s, i)
	case "stopdraw":
		f.handleStop(s, i, false)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleInteraction handles the stop button on a live draw message
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if i.MessageComponentData().CustomID == common.StopDrawComponentID {
		f.handleStop(s, i, true)
	}
}

// Subscribe keeps live messages in step with draw events on the bus
func (f *Feature) Subscribe(bus *events.Bus) func() {
	return bus.Subscribe(f.HandleEvent,
		events.EventTypeDrawStarted,
		events.EventTypeDrawNumberRevealed,
		events.EventTypeDrawCompleted,
		events.EventTypeDrawCancelled,
	)
}

// HandleEvent edits the live message tracked for the event's run
func (f *Feature) HandleEvent(ctx context.Context, event events.Event) {
	var (
		sessionID  string
		embed      *discordgo.MessageEmbed
		components []discordgo.MessageComponent
		runID      string
		final      bool
	)

	switch ev := event.(type) {
	case events.DrawStartedEvent:
		sessionID, runID = ev.SessionID, ev.RunID
		embed = CreateDrawStartingEmbed(ev.TicketCount)
		components = CreateStopComponents()
	case events.DrawNumberRevealedEvent:
		sessionID, runID = ev.SessionID, ev.RunID
		embed = CreateRevealEmbed(ev)
		components = CreateStopComponents()
	case events.DrawCompletedEvent:
		sessionID, runID = ev.SessionID, ev.Result.RunID
		embed = CreateDrawResultEmbed(ev.Result)
		final = true
	case events.DrawCancelledEvent:
		sessionID, runID = ev.SessionID, ev.RunID
		embed = CreateDrawCancelledEmbed(ev)
		final = true
	default:
		return
	}

	_, starting := event.(events.DrawStartedEvent)
	msg, ok := f.live.ForRun(sessionID, runID, starting)
	if !ok {
		return
	}
	if final {
		f.live.Release(sessionID, msg)
	}

	if err := common.EditEmbed(f.client, msg, embed, components); err != nil {
		log.WithFields(log.Fields{
			"session_id": sessionID,
			"message_id": msg.MessageID,
			"event_type": event.Type(),
			"error":      err,
		}).Error("Failed to update draw message")
	}
}
