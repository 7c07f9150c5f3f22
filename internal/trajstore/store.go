package trajstore

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/morganb-phys/galpy/orbit"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Field       string    `json:"field"`
	Scheme      string    `json:"scheme"`
	Timestamp   time.Time `json:"timestamp"`
	Rtol        float64   `json:"rtol"`
	Atol        float64   `json:"atol"`
	T0          float64   `json:"t0"`
	T1          float64   `json:"t1"`
	Samples     int       `json:"samples"`
	Dim         int       `json:"dim"`
	Steps       int       `json:"steps"`
	Evals       int       `json:"evals"`
	Step        float64   `json:"step"`
	EnergyDrift float64   `json:"energy_drift"`
}

func (s *Store) Save(field, scheme string, rtol, atol float64, result *orbit.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", field, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Field:       field,
		Scheme:      scheme,
		Timestamp:   time.Now(),
		Rtol:        rtol,
		Atol:        atol,
		Samples:     len(result.Times),
		Dim:         result.Traj.Dim(),
		Steps:       result.Steps,
		Evals:       result.Evals,
		Step:        result.Step,
		EnergyDrift: result.EnergyDrift,
	}
	if len(result.Times) > 0 {
		meta.T0 = result.Times[0]
		meta.T1 = result.Times[len(result.Times)-1]
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	dim := result.Traj.Dim()
	header := []string{"time"}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("q%d", i))
	}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("p%d", i))
	}
	if result.Energy != nil {
		header = append(header, "energy")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.Times {
		row := []string{strconv.FormatFloat(result.Times[i], 'g', 12, 64)}
		q, p := result.Traj.At(i)
		for _, val := range q {
			row = append(row, strconv.FormatFloat(val, 'g', 12, 64))
		}
		for _, val := range p {
			row = append(row, strconv.FormatFloat(val, 'g', 12, 64))
		}
		if result.Energy != nil {
			row = append(row, strconv.FormatFloat(result.Energy[i], 'g', 12, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads the numeric columns of a stored run, returning one
// row per snapshot (positions, then momenta, then energy when present)
// alongside the snapshot times.
func (s *Store) LoadTrajectory(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		row := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return rows, times, nil
}
