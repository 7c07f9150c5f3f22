package trajstore

import (
	"encoding/json"
	"io"
	"os"

	"github.com/morganb-phys/galpy/orbit"
)

type ExportData struct {
	Field       string      `json:"field"`
	Scheme      string      `json:"scheme"`
	Rtol        float64     `json:"rtol"`
	Atol        float64     `json:"atol"`
	Steps       int         `json:"steps"`
	Evals       int         `json:"evals"`
	Step        float64     `json:"step"`
	EnergyDrift float64     `json:"energy_drift"`
	Times       []float64   `json:"times"`
	Q           [][]float64 `json:"q"`
	P           [][]float64 `json:"p"`
	Energy      []float64   `json:"energy,omitempty"`
}

func ExportJSON(path, field, scheme string, rtol, atol float64, result *orbit.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, field, scheme, rtol, atol, result)
}

func ExportJSONStdout(field, scheme string, rtol, atol float64, result *orbit.Result) error {
	return writeExport(os.Stdout, field, scheme, rtol, atol, result)
}

func writeExport(w io.Writer, field, scheme string, rtol, atol float64, result *orbit.Result) error {
	data := ExportData{
		Field:       field,
		Scheme:      scheme,
		Rtol:        rtol,
		Atol:        atol,
		Steps:       result.Steps,
		Evals:       result.Evals,
		Step:        result.Step,
		EnergyDrift: result.EnergyDrift,
		Times:       result.Times,
		Q:           make([][]float64, len(result.Times)),
		P:           make([][]float64, len(result.Times)),
		Energy:      result.Energy,
	}

	for i := range result.Times {
		q, p := result.Traj.At(i)
		data.Q[i] = append([]float64(nil), q...)
		data.P[i] = append([]float64(nil), p...)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
