package config

import "sort"

// Presets are named parameter sets keyed by dimensionality. The unstable
// presets intentionally violate the explicit stability bound so the
// blow-up can be watched live.
var Presets = map[string]map[string]*Config{
	"1d": {
		"stable": {
			Dim: "1d", Method: "explicit", Nx: 41, Length: 1, Alpha: 0.01,
			Dt: 0.001, Tmax: 2.0, Speed: 10, FPS: 30,
		},
		"unstable": {
			// r = 1.6, far past the 0.5 bound; diverges within ~25 steps.
			Dim: "1d", Method: "explicit", Nx: 41, Length: 1, Alpha: 0.01,
			Dt: 0.1, Tmax: 20.0, Speed: 1, FPS: 10,
		},
		"implicit-coarse": {
			Dim: "1d", Method: "implicit", Nx: 41, Length: 1, Alpha: 0.01,
			Dt: 0.05, Tmax: 10.0, Speed: 2, FPS: 30,
		},
		"accurate": {
			Dim: "1d", Method: "crank-nicolson", Nx: 81, Length: 1, Alpha: 0.01,
			Dt: 0.01, Tmax: 5.0, Speed: 5, FPS: 30,
		},
	},
	"2d": {
		"stable": {
			Dim: "2d", Method: "explicit", Nx: 41, Length: 1, Alpha: 0.01,
			Dt: 0.01, Tmax: 2.0, Speed: 2, FPS: 30,
		},
		"unstable": {
			// rx+ry = 1.6 against the 0.5 bound.
			Dim: "2d", Method: "explicit", Nx: 41, Length: 1, Alpha: 0.01,
			Dt: 0.05, Tmax: 10.0, Speed: 1, FPS: 10,
		},
		"splitting": {
			Dim: "2d", Method: "implicit", Nx: 41, Length: 1, Alpha: 0.01,
			Dt: 0.02, Tmax: 4.0, Speed: 2, FPS: 30,
		},
		"adi": {
			Dim: "2d", Method: "crank-nicolson", Nx: 41, Length: 1, Alpha: 0.01,
			Dt: 0.01, Tmax: 4.0, Speed: 2, FPS: 30,
		},
	},
}

func GetPreset(dim, name string) *Config {
	dimPresets, ok := Presets[dim]
	if !ok {
		return nil
	}
	cfg, ok := dimPresets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(dim string) []string {
	dimPresets, ok := Presets[dim]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(dimPresets))
	for name := range dimPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
