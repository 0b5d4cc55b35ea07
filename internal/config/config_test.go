package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"analyze", Options{File: "x.csv", Mode: ModeAnalyze}, false},
		{"auto dry-run", Options{File: "x.csv", Mode: ModeAuto, DryRun: true}, false},
		{"interactive", Options{File: "x.csv", Mode: ModeInteractive}, false},
		{"missing file", Options{Mode: ModeAnalyze}, true},
		{"bad mode", Options{File: "x.csv", Mode: "yolo"}, true},
		{"interactive dry-run", Options{File: "x.csv", Mode: ModeInteractive, DryRun: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInteractiveDryRunSentinel(t *testing.T) {
	opts := Options{File: "x.csv", Mode: ModeInteractive, DryRun: true}
	assert.ErrorIs(t, opts.Validate(), ErrInteractiveDryRun)
}
