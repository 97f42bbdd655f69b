package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/spirittrails/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	sampleFile *os.File
	tierFile   *os.File
	perfFile   *os.File

	// Track if headers have been written
	sampleHeaderWritten bool
	tierHeaderWritten   bool
	perfHeaderWritten   bool
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

	f, err := os.Create(filepath.Join(dir, "samples.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating samples.csv: %w", err)
	}
	om.sampleFile = f

	f, err = os.Create(filepath.Join(dir, "tiers.csv"))
	if err != nil {
		om.sampleFile.Close()
		return nil, fmt.Errorf("creating tiers.csv: %w", err)
	}
	om.tierFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.sampleFile.Close()
		om.tierFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSample writes a performance sample to samples.csv.
func (om *OutputManager) WriteSample(s Sample) error {
	if om == nil {
		return nil
	}
	s.TimeSec = s.Time.Seconds()
	return writeRecord(om.sampleFile, []Sample{s}, &om.sampleHeaderWritten, "sample")
}

// WriteTierChange writes a tier transition to tiers.csv.
func (om *OutputManager) WriteTierChange(c TierChange) error {
	if om == nil {
		return nil
	}
	return writeRecord(om.tierFile, []TierChange{c}, &om.tierHeaderWritten, "tier change")
}

// WritePerf writes a frame timing record to perf.csv.
func (om *OutputManager) WritePerf(rec PerfStatsCSV) error {
	if om == nil {
		return nil
	}
	return writeRecord(om.perfFile, []PerfStatsCSV{rec}, &om.perfHeaderWritten, "perf")
}

// writeRecord appends records, writing the CSV header on the first call only.
func writeRecord(f *os.File, records any, headerWritten *bool, what string) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return fmt.Errorf("writing %s: %w", what, err)
		}
		*headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, f); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
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
	for _, f := range []*os.File{om.sampleFile, om.tierFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
