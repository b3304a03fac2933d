package config

import (
	"errors"
	"fmt"
	"os"

	"rav/internal/logger"
)

var (
	// ErrProjectNotFound is returned when the project file does not exist.
	ErrProjectNotFound = errors.New("project file not found")
	// ErrDownloadNotFound is returned for unknown download spec names.
	ErrDownloadNotFound = errors.New("download config not found")
)

// LoadProject reads and parses the project file at path. The result is the
// immutable project definition for one invocation.
func LoadProject(path string) (*Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: rav project file '%s' not found", ErrProjectNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	project, err := ParseProject(raw, path)
	if err != nil {
		return nil, err
	}

	logger.Debug("[DEBUG] Loaded %s: %d scripts, %d vars, %d downloads\n",
		path, project.Scripts.Len(), len(project.Vars), len(project.Downloads))
	return project, nil
}
