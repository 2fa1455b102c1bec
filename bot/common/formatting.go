package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// FormatBalls renders numbers as inline code blocks, "`05` `17` `33`"
func FormatBalls(numbers []int) string {
	if len(numbers) == 0 {
		return "-"
	}
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("`%02d`", n)
	}
	return strings.Join(parts, " ")
}

// FormatHiddenBalls renders revealed numbers followed by placeholders up to total
func FormatHiddenBalls(revealed []int, total int) string {
	parts := make([]string, 0, total)
	for _, n := range revealed {
		parts = append(parts, fmt.Sprintf("`%02d`", n))
	}
	for i := len(revealed); i < total; i++ {
		parts = append(parts, "`??`")
	}
	return strings.Join(parts, " ")
}

// FormatDuration formats a duration in a human-readable format
// Examples: "2h 30m", "3m 12s", "45s", "< 1s"
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1s"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 && hours == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// Truncate cuts s to at most max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// OptionMap indexes slash command options by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
