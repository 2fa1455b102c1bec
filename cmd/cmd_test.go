package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lottosim/config"
	"lottosim/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Cleanup(config.ResetConfig)

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPricesCommand(t *testing.T) {
	out, err := execute(t, "prices")
	require.NoError(t, err)

	assert.Contains(t, out, "Numbers")
	assert.Contains(t, out, "R$ 6.00")
	assert.Contains(t, out, "R$ 232,560.00")
}

func TestDrawCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     string
		wantContain []string
	}{
		{
			name:        "explicit ticket",
			args:        []string{"draw", "--delay", "0", "--seed", "42", "--ticket", "4,8,15,16,23,42"},
			wantContain: []string{"Ticket 1: 04 - 08 - 15 - 16 - 23 - 42", "Number 6:", "Draw result:"},
		},
		{
			name:        "quick picks",
			args:        []string{"draw", "--delay", "0", "--seed", "42", "--random", "2", "--size", "7"},
			wantContain: []string{"Ticket 2:", "Portfolio: 2 ticket(s)", "Draw result:"},
		},
		{
			name:    "empty portfolio",
			args:    []string{"draw", "--delay", "0"},
			wantErr: "pass --ticket or --random",
		},
		{
			name:    "bad ticket",
			args:    []string{"draw", "--delay", "0", "--ticket", "1,2,3"},
			wantErr: "invalid ticket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestSimulateCommand_BudgetWithChart(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "run.png")

	out, err := execute(t, "simulate",
		"--seed", "7", "--random", "2", "--max-trials", "200", "--stop", "none",
		"--pause", "0", "--history", "3", "--chart", chart)
	require.NoError(t, err)

	assert.Contains(t, out, "budget of 200 draws reached")
	assert.Contains(t, out, "Recent draws:")
	assert.Contains(t, out, "Chart written to")

	info, err := os.Stat(chart)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSimulateCommand_InvalidStop(t *testing.T) {
	_, err := execute(t, "simulate", "--random", "1", "--stop", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --stop")
}

func TestRootCommand_InvalidLogFormat(t *testing.T) {
	_, err := execute(t, "prices", "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestEnvelopePrinter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printer := &envelopePrinter{out: &out, mapper: infrastructure.NewEventSubjectMapper()}

	data, err := json.Marshal(infrastructure.EventEnvelope{
		EventID:       "evt-1",
		EventType:     "draw_completed",
		Timestamp:     time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC),
		SourceService: infrastructure.SourceService,
		Payload:       json.RawMessage(`{"session_id":"c1"}`),
	})
	require.NoError(t, err)

	require.NoError(t, printer.Handle("lottery.draw.completed", data))
	line := out.String()
	assert.Contains(t, line, "2024-03-09T20:00:00Z")
	assert.Contains(t, line, "draw_completed")
	assert.Contains(t, line, "evt-1")
	assert.Contains(t, line, `{"session_id":"c1"}`)

	assert.Error(t, printer.Handle("lottery.draw.completed", []byte("not json")))
}
