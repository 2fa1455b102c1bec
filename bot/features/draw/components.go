package draw

import (
	"lottosim/bot/common"

	"github.com/bwmarrin/discordgo"
)

// CreateStopComponents creates the stop button shown while a draw runs
func CreateStopComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Stop draw",
					Style:    discordgo.DangerButton,
					CustomID: common.StopDrawComponentID,
				},
			},
		},
	}
}
