package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rav/internal/logger"
)

// SampleFile is the file name written by WriteSample.
const SampleFile = "rav.sample.yaml"

// ErrSampleExists is returned when the sample file exists and overwrite is off.
var ErrSampleExists = errors.New("sample file already exists")

// sampleProject is the starter project written by `rav sample`.
type sampleProject struct {
	Name    string            `yaml:"name"`
	Scripts map[string]string `yaml:"scripts"`
}

func newSample() sampleProject {
	return sampleProject{
		Name: "rav",
		Scripts: map[string]string{
			"echo":       "echo 'Hello World!\nrav is working!'",
			"server":     "python3 -m http.server",
			"win-server": "python -m http.server",
		},
	}
}

// WriteSample writes a starter project to path. An existing file is only
// replaced when overwrite is set.
func WriteSample(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s (use --overwrite to continue)", ErrSampleExists, path)
	}

	// Marshal the sample project into YAML bytes
	data, err := yaml.Marshal(newSample())
	if err != nil {
		return fmt.Errorf("failed to marshal sample project: %w", err)
	}

	logger.Debug("[DEBUG] Writing sample project to %s:\n%s\n", path, string(data))

	// Write with mode 0644 (read/write owner, read others)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
