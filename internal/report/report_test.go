package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/me/credsched/internal/scheduler"
	"github.com/me/credsched/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func sampleRun() *model.Run {
	return &model.Run{
		ID:          "run_abc",
		Name:        "demo",
		State:       model.RunStateCompleted,
		BurstPolicy: model.BurstPolicyYield,
		Heartbeat:   true,
		Summary:     model.RunSummary{Clock: 26, Iterations: 5, Resets: 1},
		Processes: []model.ProcessResult{
			{Name: "A", Order: 1, State: model.ProcessStateFinished, Priority: 3, Turns: 4, CPUTime: 6, FinishedAt: 25},
			{Name: "B", Order: 2, State: model.ProcessStateBlocked, Credits: 2, Demand: 3, Priority: 2, Turns: 1, CPUTime: 1, FinishedAt: -1},
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleRun())
	out := buf.String()

	assert.Contains(t, out, "Run demo  COMPLETED")
	assert.Contains(t, out, "id=run_abc policy=yield heartbeat=on")
	assert.Contains(t, out, "clock=26  iterations=5  resets=1")
	assert.Contains(t, out, "FINISHED")
	assert.Regexp(t, `A\s+1\s+FINISHED\s+0\s+0\s+4\s+6\s+25`, out)
	assert.Regexp(t, `B\s+2\s+BLOCKED\s+2\s+3\s+1\s+1\s+-`, out)
	assert.NotContains(t, out, "error:")
}

func TestWriteText_FailedRun(t *testing.T) {
	run := sampleRun()
	run.State = model.RunStateFailed
	run.Error = "tick limit reached"

	var buf bytes.Buffer
	WriteText(&buf, run)
	assert.Contains(t, buf.String(), "FAILED")
	assert.Contains(t, buf.String(), "error: tick limit reached")
}

func TestWrite_TextWithTrace(t *testing.T) {
	events := []scheduler.Event{
		{Clock: 0, Kind: scheduler.EventSelected, Process: "A", Credits: 3, Demand: 6},
		{Clock: 4, Kind: scheduler.EventIdle},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleRun(), events))

	out := buf.String()
	assert.Contains(t, out, "selected A")
	assert.Contains(t, out, "credits=3 demand=6")
	assert.Contains(t, out, "idle")
	assert.Contains(t, out, "Run demo")
}

func TestWrite_JSON(t *testing.T) {
	events := []scheduler.Event{{Clock: 1, Kind: scheduler.EventTick, Process: "A", Credits: 2, Demand: 5}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleRun(), events))

	var got struct {
		ID        string                `json:"id"`
		State     string                `json:"state"`
		Summary   model.RunSummary      `json:"summary"`
		Processes []model.ProcessResult `json:"processes"`
		Events    []scheduler.Event     `json:"events"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run_abc", got.ID)
	assert.Equal(t, "COMPLETED", got.State)
	assert.Equal(t, 26, got.Summary.Clock)
	assert.Len(t, got.Processes, 2)
	require.Len(t, got.Events, 1)
	assert.Equal(t, scheduler.EventTick, got.Events[0].Kind)
}
