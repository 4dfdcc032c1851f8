package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pulleysim/internal/sim"
)

type ExportData struct {
	ID       string             `json:"id,omitempty"`
	Scenario string             `json:"scenario"`
	Mode     string             `json:"mode"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	BrokenAt float64            `json:"broken_at"`
	Labels   []string           `json:"labels"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		ID:       meta.ID,
		Scenario: meta.Scenario,
		Mode:     meta.Mode,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    result.StepsTaken,
		BrokenAt: result.BrokenAt,
		Labels:   result.Labels,
		Times:    result.Times,
		States:   make([][]float64, len(result.States)),
		Metrics:  result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies a run's states as CSV with a header row.
func ExportCSV(w io.Writer, result *sim.Result) error {
	return encodeStates(w, result)
}
