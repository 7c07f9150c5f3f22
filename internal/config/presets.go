package config

var Presets = map[string]map[string]*Config{
	"kepler": {
		"circular": {
			Field: "kepler", Scheme: "leapfrog", Rtol: 1e-8, Atol: 1e-8, T1: 20, Samples: 201,
			Init: InitConfig{Q: []float64{1, 0}, P: []float64{0, 1}},
		},
		"eccentric": {
			Field: "kepler", Scheme: "leapfrog", Rtol: 1e-9, Atol: 1e-9, T1: 50, Samples: 501,
			Init: InitConfig{Q: []float64{1, 0}, P: []float64{0, 1.3}},
		},
		"longrun": {
			Field: "kepler", Scheme: "symplec4", Rtol: 1e-10, Atol: 1e-10, T1: 1000, Samples: 2001,
			Init: InitConfig{Q: []float64{1, 0}, P: []float64{0, 1}},
		},
	},
	"sho": {
		"circle": {
			Field: "sho", Scheme: "leapfrog", Rtol: 1e-8, Atol: 1e-8, T1: 20, Samples: 201,
			Init: InitConfig{Q: []float64{1, 0}, P: []float64{0, 1}},
		},
		"ellipse": {
			Field: "sho", Scheme: "symplec4", Rtol: 1e-10, Atol: 1e-10, T1: 60, Samples: 601,
			Init: InitConfig{Q: []float64{1, 0}, P: []float64{0, 0.4}},
		},
	},
	"drift": {
		"free": {
			Field: "drift", Scheme: "leapfrog", Rtol: 1e-8, Atol: 1e-8, T1: 10, Samples: 101,
			Init: InitConfig{Q: []float64{0, 0}, P: []float64{1, 0.5}},
		},
	},
}

func GetPreset(field, preset string) *Config {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	cfg, ok := fieldPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(field string) []string {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fieldPresets))
	for name := range fieldPresets {
		names = append(names, name)
	}
	return names
}
