// Package report renders simulation runs for terminals and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/me/credsched/internal/scheduler"
	"github.com/me/credsched/pkg/model"
)

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	Magenta    = color.New(color.FgMagenta).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// StateColor returns the colored label for a process state.
func StateColor(s model.ProcessState) string {
	label := fmt.Sprintf("%-8s", s)
	switch s {
	case model.ProcessStateFinished:
		return Green(label)
	case model.ProcessStateBlocked:
		return Yellow(label)
	case model.ProcessStateRunning:
		return Magenta(label)
	default:
		return Cyan(label)
	}
}

// Write renders run (and the optional event trace) in the given format.
func Write(w io.Writer, f Format, run *model.Run, events []scheduler.Event) error {
	if f == FormatJSON {
		return WriteJSON(w, run, events)
	}
	if len(events) > 0 {
		WriteTrace(w, events)
		fmt.Fprintln(w)
	}
	WriteText(w, run)
	return nil
}

// WriteText prints the run header and final process table.
func WriteText(w io.Writer, run *model.Run) {
	status := BoldGreen(run.State)
	if run.State == model.RunStateFailed {
		status = BoldRed(run.State)
	}
	heartbeat := "off"
	if run.Heartbeat {
		heartbeat = "on"
	}

	fmt.Fprintf(w, "%s %s  %s\n", Bold("Run"), run.Name, status)
	fmt.Fprintf(w, "%s\n", Dim(fmt.Sprintf("id=%s policy=%s heartbeat=%s", run.ID, run.BurstPolicy, heartbeat)))
	fmt.Fprintf(w, "clock=%d  iterations=%d  resets=%d\n\n", run.Summary.Clock, run.Summary.Iterations, run.Summary.Resets)

	fmt.Fprintf(w, "%-12s  %-5s  %-8s  %7s  %6s  %5s  %4s  %8s\n",
		"PROCESS", "ORDER", "STATE", "CREDITS", "DEMAND", "TURNS", "CPU", "FINISHED")
	for _, p := range run.Processes {
		finished := "-"
		if p.FinishedAt >= 0 {
			finished = fmt.Sprintf("%d", p.FinishedAt)
		}
		fmt.Fprintf(w, "%-12s  %5d  %s  %7d  %6d  %5d  %4d  %8s\n",
			p.Name, p.Order, StateColor(p.State), p.Credits, p.Demand, p.Turns, p.CPUTime, finished)
	}

	if run.Error != "" {
		fmt.Fprintf(w, "\n%s %s\n", BoldYellow("error:"), run.Error)
	}
}

// WriteTrace prints one line per scheduling event.
func WriteTrace(w io.Writer, events []scheduler.Event) {
	for _, ev := range events {
		if ev.Process == "" {
			fmt.Fprintf(w, "%s %s\n", Dim(fmt.Sprintf("t=%-5d", ev.Clock)), ev.Kind)
			continue
		}
		fmt.Fprintf(w, "%s %-8s %-12s credits=%d demand=%d\n",
			Dim(fmt.Sprintf("t=%-5d", ev.Clock)), ev.Kind, ev.Process, ev.Credits, ev.Demand)
	}
}

type jsonReport struct {
	*model.Run
	Events []scheduler.Event `json:"events,omitempty"`
}

// WriteJSON encodes run and events as indented JSON.
func WriteJSON(w io.Writer, run *model.Run, events []scheduler.Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Run: run, Events: events})
}
