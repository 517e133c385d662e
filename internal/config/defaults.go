package config

const (
	defaultDatasetDir      = "~/.local/share/corpus/datasets"
	defaultLogDir          = "~/.local/share/corpus/logs"
	defaultSource          = "euphonia"
	defaultRecordingDevice = "macbook_pro"
	defaultSessionGapMS    = 60_000
	defaultTrainRatio      = 0.8
	defaultValRatio        = 0.1
	defaultTestRatio       = 0.1
	defaultSeed            = 42
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

func defaultBinEdges() []float64 {
	return []float64{1, 3, 10, 30}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetDir: defaultDatasetDir,
			LogDir:     defaultLogDir,
		},
		Dataset: Dataset{
			Source:           defaultSource,
			RecordingDevice:  defaultRecordingDevice,
			DurationBinEdges: defaultBinEdges(),
			SessionGapMS:     defaultSessionGapMS,
		},
		Split: Split{
			TrainRatio: defaultTrainRatio,
			ValRatio:   defaultValRatio,
			TestRatio:  defaultTestRatio,
			Seed:       defaultSeed,
		},
		Hashing: Hashing{
			Workers: 0,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
