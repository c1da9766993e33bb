package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/heatlab/internal/engine"
	"github.com/san-kum/heatlab/internal/pde"
)

// Store persists simulation runs, one directory per run holding
// metadata.json, a diagnostics time series and the final field snapshot.
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
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Dim             string    `json:"dim"`
	Method          string    `json:"method"`
	Nx              int       `json:"nx"`
	Length          float64   `json:"length"`
	Alpha           float64   `json:"alpha"`
	Dt              float64   `json:"dt"`
	Tmax            float64   `json:"tmax"`
	Steps           int       `json:"steps"`
	DiffusionNumber float64   `json:"diffusion_number"`
	L2Error         float64   `json:"l2_error"`
	MaxError        float64   `json:"max_error"`
	MaxRelError     float64   `json:"max_rel_error,omitempty"`
	CostEstimate    float64   `json:"cost_estimate"`
	Diverged        bool      `json:"diverged"`
	SolverFailures  int       `json:"solver_failures"`
}

// Series is a diagnostics history sampled over a run.
type Series struct {
	T        []float64
	L2Error  []float64
	MaxError []float64
	Cost     []float64
}

// FieldSnapshot is the stored final state of a run: coordinates plus the
// numerical and analytical fields, flattened row-major for 2D.
type FieldSnapshot struct {
	Nx, Ny int
	Xs     []float64
	U      []float64
	Exact  []float64
}

func (s *Store) Save(p pde.Params, g *pde.Grid, u, exact *pde.Field, final engine.Diagnostics, series []engine.Diagnostics) (string, error) {
	runID := fmt.Sprintf("%s_%s_%d", p.Dim, p.Method, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Timestamp:       time.Now(),
		Dim:             p.Dim,
		Method:          p.Method,
		Nx:              p.Nx,
		Length:          p.Length,
		Alpha:           p.Alpha,
		Dt:              p.Dt,
		Tmax:            p.Tmax,
		Steps:           final.Steps,
		DiffusionNumber: final.DiffusionNumber,
		L2Error:         final.L2Error,
		MaxError:        final.MaxError,
		MaxRelError:     final.MaxRelError,
		CostEstimate:    final.CostEstimate,
		Diverged:        final.Diverged,
		SolverFailures:  final.SolverFailures,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeSeries(runDir, series); err != nil {
		return "", err
	}
	if err := s.writeField(runDir, g, u, exact); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeSeries(runDir string, series []engine.Diagnostics) error {
	f, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "l2_error", "max_error", "cost"}); err != nil {
		return err
	}
	for _, d := range series {
		row := []string{
			strconv.FormatFloat(d.T, 'f', 6, 64),
			strconv.FormatFloat(d.L2Error, 'g', -1, 64),
			strconv.FormatFloat(d.MaxError, 'g', -1, 64),
			strconv.FormatFloat(d.CostEstimate, 'f', 0, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeField(runDir string, g *pde.Grid, u, exact *pde.Field) error {
	f, err := os.Create(filepath.Join(runDir, "field.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if g.Dim == pde.Dim2D {
		if err := w.Write([]string{"x", "y", "u", "exact"}); err != nil {
			return err
		}
		for j := 0; j < u.Ny; j++ {
			for i := 0; i < u.Nx; i++ {
				row := []string{
					strconv.FormatFloat(g.Xs[i], 'g', -1, 64),
					strconv.FormatFloat(g.Xs[j], 'g', -1, 64),
					strconv.FormatFloat(u.At(i, j), 'g', -1, 64),
					strconv.FormatFloat(exact.At(i, j), 'g', -1, 64),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := w.Write([]string{"x", "u", "exact"}); err != nil {
		return err
	}
	for i := 0; i < u.Nx; i++ {
		row := []string{
			strconv.FormatFloat(g.Xs[i], 'g', -1, 64),
			strconv.FormatFloat(u.Data[i], 'g', -1, 64),
			strconv.FormatFloat(exact.Data[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	series := &Series{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		l2, _ := strconv.ParseFloat(record[1], 64)
		max, _ := strconv.ParseFloat(record[2], 64)
		cost, _ := strconv.ParseFloat(record[3], 64)
		series.T = append(series.T, t)
		series.L2Error = append(series.L2Error, l2)
		series.MaxError = append(series.MaxError, max)
		series.Cost = append(series.Cost, cost)
	}
	return series, nil
}

func (s *Store) LoadField(runID string) (*FieldSnapshot, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "field.csv"))
	if err != nil {
		return nil, err
	}

	snap := &FieldSnapshot{Nx: meta.Nx, Ny: 1}
	if meta.Dim == pde.Dim2D {
		snap.Ny = meta.Nx
	}
	uCol, exactCol := 1, 2
	if meta.Dim == pde.Dim2D {
		uCol, exactCol = 2, 3
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) <= exactCol {
			continue
		}
		x, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		u, _ := strconv.ParseFloat(record[uCol], 64)
		ex, _ := strconv.ParseFloat(record[exactCol], 64)
		if len(snap.Xs) < snap.Nx {
			snap.Xs = append(snap.Xs, x)
		}
		snap.U = append(snap.U, u)
		snap.Exact = append(snap.Exact, ex)
	}
	if len(snap.U) != snap.Nx*snap.Ny {
		return nil, fmt.Errorf("storage: field snapshot for %s is truncated", runID)
	}
	return snap, nil
}

func (s *Store) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
