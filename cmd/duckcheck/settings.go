package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"duckcheck/internal/project"
)

// configError is a duckcheck.toml that was found but could not be used.
type configError struct {
	path string
	err  error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// loadManifest reads duckcheck.toml above the working directory. Without
// one the defaults apply and the working directory is the root.
func loadManifest() (*project.Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, ok, err := project.FindConfig(wd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &project.Manifest{Root: wd, Config: project.Default()}, nil
	}
	cfg, err := project.LoadConfig(path)
	if err != nil {
		return nil, &configError{path: path, err: err}
	}
	return &project.Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// colorEnabled resolves the persistent --color flag for stdout.
func colorEnabled(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readUIMode("color", value)
	if err != nil {
		return false, err
	}
	if mode == uiModeAuto && cmd.OutOrStdout() != os.Stdout {
		return false, nil
	}
	return mode.enabled(os.Stdout), nil
}
