package common_test

import (
	"errors"
	"testing"

	"lottosim/bot/bottest"
	"lottosim/bot/common"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveMessages_TrackReleaseRestore(t *testing.T) {
	t.Parallel()

	live := common.NewLiveMessages()
	first := common.LiveMessage{ChannelID: "c", MessageID: "1"}
	second := common.LiveMessage{ChannelID: "c", MessageID: "2"}

	_, had := live.Track("s", first)
	assert.False(t, had)

	prev, had := live.Track("s", second)
	require.True(t, had)
	assert.Equal(t, first, prev)

	// releasing a stale message keeps the current one
	live.Release("s", first)
	got, ok := live.Lookup("s")
	require.True(t, ok)
	assert.Equal(t, second, got)

	live.Restore("s", prev, had)
	got, _ = live.Lookup("s")
	assert.Equal(t, first, got)

	live.Release("s", first)
	_, ok = live.Lookup("s")
	assert.False(t, ok)

	live.Track("s", second)
	live.Restore("s", common.LiveMessage{}, false)
	_, ok = live.Lookup("s")
	assert.False(t, ok)
}

func TestLiveMessages_ForRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tracked  *common.LiveMessage
		runID    string
		starting bool
		wantOK   bool
		wantRun  string
	}{
		{name: "untracked session", runID: "a", starting: true},
		{name: "start claims unbound message", tracked: &common.LiveMessage{MessageID: "m"}, runID: "a", starting: true, wantOK: true, wantRun: "a"},
		{name: "late event skips unbound message", tracked: &common.LiveMessage{MessageID: "m"}, runID: "a"},
		{name: "empty run id", tracked: &common.LiveMessage{MessageID: "m"}, starting: true},
		{name: "bound run matches", tracked: &common.LiveMessage{MessageID: "m", RunID: "a"}, runID: "a", wantOK: true, wantRun: "a"},
		{name: "other run ignored", tracked: &common.LiveMessage{MessageID: "m", RunID: "b"}, runID: "a", starting: true, wantRun: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			live := common.NewLiveMessages()
			if tt.tracked != nil {
				live.Track("s", *tt.tracked)
			}
			_, ok := live.ForRun("s", tt.runID, tt.starting)
			assert.Equal(t, tt.wantOK, ok)

			if tt.tracked != nil {
				got, _ := live.Lookup("s")
				assert.Equal(t, tt.wantRun, got.RunID)
			}
		})
	}
}

func TestLiveMessages_BindThenRelease(t *testing.T) {
	t.Parallel()

	live := common.NewLiveMessages()
	msg := common.LiveMessage{ChannelID: "c", MessageID: "m"}
	live.Track("s", msg)

	live.Bind("s", common.LiveMessage{MessageID: "other"}, "a")
	got, _ := live.Lookup("s")
	assert.Empty(t, got.RunID)

	live.Bind("s", msg, "a")
	live.Bind("s", msg, "b")
	bound, ok := live.ForRun("s", "a", false)
	require.True(t, ok)
	assert.Equal(t, "a", bound.RunID)

	live.Release("s", msg)
	_, ok = live.Lookup("s")
	assert.True(t, ok, "release needs the bound message")

	live.Release("s", bound)
	_, ok = live.Lookup("s")
	assert.False(t, ok)
}

func TestEditEmbed(t *testing.T) {
	t.Parallel()

	client := &bottest.MessageClient{}
	msg := common.LiveMessage{ChannelID: "c", MessageID: "m"}

	require.NoError(t, common.EditEmbed(client, msg, &discordgo.MessageEmbed{Title: "done"}, nil))
	require.Equal(t, 1, client.EditCount())
	assert.Equal(t, "done", client.LastEmbed().Title)

	edit := client.Edits[0]
	assert.Equal(t, "c", edit.Channel)
	assert.Equal(t, "m", edit.ID)
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components)

	client.EditErr = errors.New("rate limited")
	assert.Error(t, common.EditEmbed(client, msg, &discordgo.MessageEmbed{}, nil))
}
