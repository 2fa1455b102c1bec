// Package bottest provides fakes for exercising Discord features without a gateway
package bottest

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// MessageClient records message edits and sends
type MessageClient struct {
	mu      sync.Mutex
	Edits   []*discordgo.MessageEdit
	Sends   []*discordgo.MessageSend
	EditErr error
}

// ChannelMessageEditComplex records the edit
func (c *MessageClient) ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Edits = append(c.Edits, m)
	if c.EditErr != nil {
		return nil, c.EditErr
	}
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

// ChannelMessageSendComplex records the send
func (c *MessageClient) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sends = append(c.Sends, data)
	return &discordgo.Message{ID: "sent", ChannelID: channelID}, nil
}

// EditCount returns how many edits were made
func (c *MessageClient) EditCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Edits)
}

// LastEmbed returns the first embed of the most recent edit
func (c *MessageClient) LastEmbed() *discordgo.MessageEmbed {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Edits) == 0 || c.Edits[len(c.Edits)-1].Embeds == nil {
		return nil
	}
	embeds := *c.Edits[len(c.Edits)-1].Embeds
	if len(embeds) == 0 {
		return nil
	}
	return embeds[0]
}

// SendCount returns how many messages were sent
func (c *MessageClient) SendCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Sends)
}
