package common

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// MessageClient is the part of the Discord session used to keep live
// messages up to date
type MessageClient interface {
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// LiveMessage identifies a Discord message that mirrors a running draw or
// simulation. RunID is empty until the message is bound to a run.
type LiveMessage struct {
	ChannelID string
	MessageID string
	RunID     string
}

// LiveMessages maps session IDs to the message currently showing their run
type LiveMessages struct {
	mu       sync.Mutex
	messages map[string]LiveMessage
}

// NewLiveMessages creates an empty tracker
func NewLiveMessages() *LiveMessages {
	return &LiveMessages{messages: make(map[string]LiveMessage)}
}

// Track records msg for the session and returns whatever it replaced
func (l *LiveMessages) Track(sessionID string, msg LiveMessage) (LiveMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev, ok := l.messages[sessionID]
	l.messages[sessionID] = msg
	return prev, ok
}

// Lookup returns the message tracked for the session
func (l *LiveMessages) Lookup(sessionID string) (LiveMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg, ok := l.messages[sessionID]
	return msg, ok
}

// ForRun returns the session's message if it belongs to runID. An unbound
// message is claimed by the first run whose start event asks for it, so late
// events of an earlier run never touch it.
func (l *LiveMessages) ForRun(sessionID, runID string, starting bool) (LiveMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg, ok := l.messages[sessionID]
	if !ok || runID == "" {
		return msg, false
	}
	if msg.RunID == "" && starting {
		msg.RunID = runID
		l.messages[sessionID] = msg
	}
	return msg, msg.RunID == runID
}

// Bind ties the tracked message to runID unless another run already claimed it
func (l *LiveMessages) Bind(sessionID string, msg LiveMessage, runID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.messages[sessionID]
	if !ok || current.MessageID != msg.MessageID || current.RunID != "" {
		return
	}
	current.RunID = runID
	l.messages[sessionID] = current
}

// Release stops tracking the session's message if it is still msg
func (l *LiveMessages) Release(sessionID string, msg LiveMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if current, ok := l.messages[sessionID]; ok && current == msg {
		delete(l.messages, sessionID)
	}
}

// Restore puts back a previously tracked message, or forgets the session
func (l *LiveMessages) Restore(sessionID string, prev LiveMessage, had bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if had {
		l.messages[sessionID] = prev
		return
	}
	delete(l.messages, sessionID)
}

// EditEmbed replaces the embed and components of a live message
func EditEmbed(client MessageClient, msg LiveMessage, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	_, err := client.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    msg.ChannelID,
		ID:         msg.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	return err
}
