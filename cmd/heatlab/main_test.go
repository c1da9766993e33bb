package main

import (
	"testing"

	"github.com/san-kum/heatlab/internal/engine"
	"github.com/san-kum/heatlab/internal/pde"
)

func driveSession(t *testing.T, samples int) []engine.Diagnostics {
	t.Helper()

	eng := engine.New()
	p := pde.Params{
		Dim: pde.Dim1D, Method: "explicit", Nx: 41,
		Length: 1, Alpha: 0.01, Dt: 0.001, Tmax: 0.01,
	}
	if err := eng.Configure(p); err != nil {
		t.Fatal(err)
	}
	if err := eng.Reset(); err != nil {
		t.Fatal(err)
	}
	series, err := drive(eng, samples)
	if err != nil {
		t.Fatal(err)
	}
	return series
}

func TestDriveSeriesStrictlyIncreasing(t *testing.T) {
	// 10 total steps sampled every 2: the final step lands exactly on the
	// stride, which must not produce a duplicate trailing row.
	series := driveSession(t, 5)
	for i := 1; i < len(series); i++ {
		if series[i].Steps <= series[i-1].Steps {
			t.Errorf("series row %d repeats step %d", i, series[i].Steps)
		}
	}
	if last := series[len(series)-1]; last.Steps != 10 {
		t.Errorf("final row at step %d, want 10", last.Steps)
	}
}

func TestDriveSeriesKeepsFinalOffStrideRow(t *testing.T) {
	// 10 total steps sampled every 3: the last stride row is step 9, so
	// the final state at step 10 must still be appended.
	series := driveSession(t, 3)
	if last := series[len(series)-1]; last.Steps != 10 {
		t.Errorf("final row at step %d, want 10", last.Steps)
	}
	for i := 1; i < len(series); i++ {
		if series[i].Steps <= series[i-1].Steps {
			t.Errorf("series row %d repeats step %d", i, series[i].Steps)
		}
	}
}
