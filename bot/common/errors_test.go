package common

import (
	"errors"
	"fmt"
	"testing"

	"lottosim/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantSystem  bool
	}{
		{
			name:        "wrapped ticket numbers",
			err:         fmt.Errorf("failed to create ticket: %w", entities.ErrInvalidTicketNumbers),
			wantMessage: "Ticket numbers must be distinct whole numbers between 1 and 60.",
		},
		{
			name:        "ticket size",
			err:         entities.ErrInvalidTicketSize,
			wantMessage: "A ticket must have between 6 and 20 numbers.",
		},
		{
			name:        "empty portfolio",
			err:         entities.ErrEmptyPortfolio,
			wantMessage: "Add at least one ticket first with `/lotto add` or `/lotto random`.",
		},
		{
			name:        "already running",
			err:         fmt.Errorf("failed to start draw: %w", entities.ErrAlreadyRunning),
			wantMessage: "One is already running in this channel. Stop it first.",
		},
		{
			name:        "not running",
			err:         entities.ErrNotRunning,
			wantMessage: "Nothing is running in this channel.",
		},
		{
			name:        "randomness failure",
			err:         errors.New("failed to read secure random number: EOF"),
			wantMessage: "Something went wrong. Please try again later.",
			wantSystem:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			botErr := FromDomainError(tt.err, "log message")
			assert.Equal(t, tt.wantMessage, botErr.UserMessage)
			assert.Equal(t, "log message", botErr.LogMessage)
			assert.True(t, botErr.Ephemeral)
			assert.ErrorIs(t, botErr, tt.err)
			if tt.wantSystem {
				assert.Contains(t, botErr.Error(), "EOF")
			}
		})
	}
}

func TestBotError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bad input", NewUserError("shown", "bad input").Error())
	assert.Equal(t, "db down: boom", NewSystemError(errors.New("boom"), "db down").Error())
}

func TestInteractionUserID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		interaction *discordgo.Interaction
		want        string
	}{
		{
			name:        "guild member",
			interaction: &discordgo.Interaction{Member: &discordgo.Member{User: &discordgo.User{ID: "42"}}},
			want:        "42",
		},
		{
			name:        "direct message",
			interaction: &discordgo.Interaction{User: &discordgo.User{ID: "7"}},
			want:        "7",
		},
		{
			name:        "unknown",
			interaction: &discordgo.Interaction{},
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, InteractionUserID(&discordgo.InteractionCreate{Interaction: tt.interaction}))
		})
	}
}
