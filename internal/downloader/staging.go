package downloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"rav/internal/logger"
)

// stagePath returns the staging location for filename, creating the staging
// directory on demand.
func (d *Downloader) stagePath(filename string) (string, error) {
	if err := os.MkdirAll(d.StagingDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory %s: %w", d.StagingDir, err)
	}
	return filepath.Join(d.StagingDir, filename), nil
}

// promote replaces final with the verified staged file. The staging
// directory may live on another filesystem, in which case the file is copied
// next to final and renamed from there.
func promote(staged, final string) error {
	if err := os.Remove(final); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove existing %s: %w", final, err)
	}

	err := os.Rename(staged, final)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return fmt.Errorf("failed to move %s to %s: %w", staged, final, err)
	}

	logger.Debug("[DEBUG] staging dir is on another device, copying %s\n", staged)
	if err := copyFile(staged, final); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", staged, final, err)
	}
	_ = os.Remove(staged)
	return nil
}

// discard removes a staged file that must not be promoted.
func discard(staged string) {
	if err := os.Remove(staged); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debug("[DEBUG] failed to remove staged file %s: %v\n", staged, err)
	}
}

// purgeStaging removes the files left in the staging directory. It is best
// effort: a missing directory or a file that cannot be removed is ignored.
func (d *Downloader) purgeStaging() {
	entries, err := os.ReadDir(d.StagingDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(d.StagingDir, e.Name())
		if err := os.Remove(p); err != nil {
			logger.Debug("[DEBUG] could not purge %s: %v\n", p, err)
		}
	}
}
