package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/worb/internal/sim"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Frames   []sim.Frame        `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, scenario string, cfg sim.Config, result *sim.Result) error {
	data := ExportData{
		Scenario: scenario,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    len(result.Frames),
		Frames:   result.Frames,
		Metrics:  result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
