// Package config holds the run options value object. It is constructed once
// at startup from flags and the optional config file, then passed explicitly
// into every component that needs a setting; nothing reads ambient globals.
package config

import (
	"errors"
	"fmt"
)

// Mode is the cleaning mode of one run.
type Mode string

const (
	// ModeAnalyze reports duplicate groups and changes nothing.
	ModeAnalyze Mode = "analyze"
	// ModeInteractive resolves URI-level groups through per-group prompts.
	ModeInteractive Mode = "interactive"
	// ModeAuto collapses same-login and domain-credential groups without
	// interaction.
	ModeAuto Mode = "auto"
)

var ErrInteractiveDryRun = errors.New("--dry-run cannot be combined with interactive mode")

// Options are the settings of one cleaning run.
type Options struct {
	// File is the path of the export to clean.
	File string
	// Mode selects analyze, interactive or auto.
	Mode Mode
	// DryRun executes every step but writes no files.
	DryRun bool
	// ShowPasswords renders passwords in clear instead of masked.
	ShowPasswords bool
	// Force skips the typed confirmation before the automatic collapse.
	Force bool
	// Output overrides the generated cleaned-file path.
	Output string
	// Report is an optional path for the JSON run report.
	Report string
	// Verbose enables debug logging.
	Verbose bool
}

// Validate rejects inconsistent option combinations before any file is
// touched.
func (o *Options) Validate() error {
	if o.File == "" {
		return errors.New("no export file given")
	}
	switch o.Mode {
	case ModeAnalyze, ModeInteractive, ModeAuto:
	default:
		return fmt.Errorf("invalid mode %q (must be analyze, interactive or auto)", o.Mode)
	}
	if o.Mode == ModeInteractive && o.DryRun {
		return ErrInteractiveDryRun
	}
	return nil
}
