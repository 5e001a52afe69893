package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the commented default configuration into the directory
// so users have something to edit. Existing files are never overwritten.
func Initialize(fsys afero.Fs, path string, logger *log.Logger) error {
	dest := filepath.Join(path, ConfigurationName)

	if _, err := fsys.Stat(dest); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", dest)
	}

	if err := afero.WriteFile(fsys, dest, defaultConfigData, 0644); err != nil {
		return err
	}

	logger.Printf("Wrote %s", dest)
	return nil
}
