package resolver

import (
	"context"
	"io"

	"gopkg.in/yaml.v3"
)

// DryRunImporter prints the request as YAML instead of importing anything
type DryRunImporter struct {
	Out io.Writer
}

// Import writes req to Out and reports no files
func (d *DryRunImporter) Import(_ context.Context, req ImportRequest) (*ImportResult, error) {
	enc := yaml.NewEncoder(d.Out)
	enc.SetIndent(2)
	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return &ImportResult{}, nil
}
