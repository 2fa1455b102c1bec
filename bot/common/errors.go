package common

import (
	"errors"
	"fmt"

	"lottosim/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string      // Message shown to Discord user
	LogMessage  string      // Internal message for logging
	Ephemeral   bool        // Whether the error message should be ephemeral
	Err         error       // Underlying error
	Context     interface{} // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (bad numbers, nothing to draw, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (randomness failure, Discord API, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// FromDomainError turns a domain error into a BotError, keeping the cause
// visible to the user when it is something they can fix
func FromDomainError(err error, logMessage string) *BotError {
	var userMessage string
	switch {
	case errors.Is(err, entities.ErrInvalidTicketNumbers):
		userMessage = "Ticket numbers must be distinct whole numbers between 1 and 60."
	case errors.Is(err, entities.ErrInvalidTicketSize):
		userMessage = "A ticket must have between 6 and 20 numbers."
	case errors.Is(err, entities.ErrEmptyPortfolio):
		userMessage = "Add at least one ticket first with `/lotto add` or `/lotto random`."
	case errors.Is(err, entities.ErrAlreadyRunning):
		userMessage = "One is already running in this channel. Stop it first."
	case errors.Is(err, entities.ErrNotRunning):
		userMessage = "Nothing is running in this channel."
	case errors.Is(err, entities.ErrInvalidTrialBudget):
		userMessage = "The trial budget cannot be negative."
	case errors.Is(err, entities.ErrInvalidStopTier):
		userMessage = "Stop conditions can only be quadra, quina or sena."
	default:
		return NewSystemError(err, logMessage)
	}
	botErr := NewUserError(userMessage, logMessage)
	botErr.Err = err
	return botErr
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError processes a BotError and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	fields := log.Fields{
		"user_id":    InteractionUserID(i),
		"channel_id": i.ChannelID,
	}

	var botErr *BotError
	if errors.As(err, &botErr) {
		fields["error"] = botErr.Error()
		fields["user_message"] = botErr.UserMessage
		fields["context"] = botErr.Context
		log.WithFields(fields).Error(botErr.LogMessage)

		if deferred {
			FollowUpWithError(s, i, botErr.UserMessage)
		} else {
			RespondWithError(s, i, botErr.UserMessage)
		}
		return
	}

	// Unexpected error - log full details but show generic message to user
	fields["error"] = err.Error()
	log.WithFields(fields).Error("Unexpected error in bot command")

	if deferred {
		FollowUpWithError(s, i, "Something went wrong. Please try again later.")
	} else {
		RespondWithError(s, i, "Something went wrong. Please try again later.")
	}
}

// InteractionUserID returns the invoking user in guilds and DMs alike
func InteractionUserID(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}
