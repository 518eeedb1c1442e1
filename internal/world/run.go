package world

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Result collects per-step diagnostics from a headless run.
type Result struct {
	Times     []float64 `json:"times"`
	MaxErrors []float64 `json:"max_errors"`
	Energies  []float64 `json:"energies"`
	Events    int       `json:"events"`
	Steps     int       `json:"steps"`
}

// Run advances the world for the given duration at the fixed timestep,
// recording the per-step max constraint error and kinetic energy.
func (w *World) Run(ctx context.Context, duration float64) (*Result, error) {
	steps := int(duration / w.Config.Timestep)
	res := &Result{
		Times:     make([]float64, 0, steps),
		MaxErrors: make([]float64, 0, steps),
		Energies:  make([]float64, 0, steps),
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		events, err := w.Step(ctx)
		if err != nil {
			return res, err
		}

		res.Steps++
		res.Events += len(events)
		res.Times = append(res.Times, w.Elapsed())
		res.MaxErrors = append(res.MaxErrors, w.MaxError())
		res.Energies = append(res.Energies, w.KineticEnergy())
	}
	return res, nil
}

// ExportCSV writes the per-step histories as time,max_error,energy rows.
func (r *Result) ExportCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write([]string{"time", "max_error", "energy"}); err != nil {
		return err
	}
	for i := range r.Times {
		row := []string{
			strconv.FormatFloat(r.Times[i], 'g', -1, 64),
			strconv.FormatFloat(r.MaxErrors[i], 'g', -1, 64),
			strconv.FormatFloat(r.Energies[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// ExportJSON writes the full result as indented JSON.
func (r *Result) ExportJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("world: marshal result: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
