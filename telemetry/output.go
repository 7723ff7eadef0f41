package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/gridlife/config"
)

// OutputManager handles structured training output with CSV logging.
type OutputManager struct {
	dir             string
	generationsFile *os.File
	samplesFile     *os.File

	// Track if headers have been written
	generationsHeaderWritten bool
	samplesHeaderWritten     bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating generations.csv: %w", err)
	}
	om.generationsFile = f

	f, err = os.Create(filepath.Join(dir, "samples.csv"))
	if err != nil {
		om.generationsFile.Close()
		return nil, fmt.Errorf("creating samples.csv: %w", err)
	}
	om.samplesFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteGeneration writes a generation record to generations.csv.
func (om *OutputManager) WriteGeneration(stats GenerationStats) error {
	if om == nil {
		return nil
	}

	records := []GenerationStats{stats}

	if !om.generationsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.generationsFile); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
		om.generationsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.generationsFile); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
	}

	return nil
}

// WriteSamples writes per-sample records to samples.csv.
func (om *OutputManager) WriteSamples(results []SampleResult) error {
	if om == nil || len(results) == 0 {
		return nil
	}

	if !om.samplesHeaderWritten {
		if err := gocsv.Marshal(results, om.samplesFile); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
		om.samplesHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(results, om.samplesFile); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.generationsFile != nil {
		if err := om.generationsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.samplesFile != nil {
		if err := om.samplesFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
