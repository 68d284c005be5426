package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/HatiCode/edgegate/pkg/history"
)

var (
	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}).
		Bold(true)

	styleLabel = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"})

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})

	styleBold = lipgloss.NewStyle().Bold(true)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecord(w io.Writer, rec history.Record) {
	fmt.Fprintf(w, "%s  %-16s label=%s score=%s %s\n",
		styleDim.Render(strconv.FormatInt(rec.ID, 10)),
		rec.Sample,
		styleLabel.Render(strconv.Itoa(rec.Prediction.Label)),
		strconv.FormatFloat(rec.Prediction.Score, 'f', 3, 64),
		styleDim.Render(strconv.FormatFloat(rec.LatencyMs, 'f', 2, 64)+"ms"),
	)
}
