package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/worb/internal/sim"
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
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Bodies    int                `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save stores a run as metadata.json plus states.csv under a run-id
// directory. The CSV carries one row per frame: time, the energies, and
// for each body its position, velocity and active flag.
func (s *Store) Save(scenario string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	bodies := 0
	if len(result.Frames) > 0 {
		bodies = len(result.Frames[0].Bodies)
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Bodies:    bodies,
		Metrics:   result.Metrics,
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

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Frames) == 0 {
		return runID, nil
	}

	header := []string{"time", "e_kin", "e_pot", "contacts"}
	for i := 0; i < bodies; i++ {
		header = append(header,
			fmt.Sprintf("b%d_px", i), fmt.Sprintf("b%d_py", i), fmt.Sprintf("b%d_pz", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i), fmt.Sprintf("b%d_vz", i),
			fmt.Sprintf("b%d_active", i),
		)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, frame := range result.Frames {
		row := []string{
			strconv.FormatFloat(frame.Time, 'f', 6, 64),
			strconv.FormatFloat(frame.KineticEnergy, 'f', 6, 64),
			strconv.FormatFloat(frame.PotentialEnergy, 'f', 6, 64),
			strconv.Itoa(frame.Contacts),
		}
		for _, b := range frame.Bodies {
			row = append(row,
				strconv.FormatFloat(b.Position[0], 'f', 6, 64),
				strconv.FormatFloat(b.Position[1], 'f', 6, 64),
				strconv.FormatFloat(b.Position[2], 'f', 6, 64),
				strconv.FormatFloat(b.Velocity[0], 'f', 6, 64),
				strconv.FormatFloat(b.Velocity[1], 'f', 6, 64),
				strconv.FormatFloat(b.Velocity[2], 'f', 6, 64),
				strconv.FormatBool(b.Active),
			)
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

// LoadStates reads states.csv back as raw columns: the header names,
// the times and one float row per frame (boolean flags come back as 0
// or 1).
func (s *Store) LoadStates(runID string) ([]string, []float64, [][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}

	if len(records) < 2 {
		return nil, []float64{}, [][]float64{}, nil
	}

	header := records[0]
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
				if record[j] == "true" {
					val = 1
				} else if record[j] == "false" {
					val = 0
				} else {
					continue
				}
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return header, times, rows, nil
}
