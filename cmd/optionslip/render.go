package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/optionslip"
	"github.com/tsawler/optionslip/engine"
	"github.com/tsawler/optionslip/model"
)

// document is the rendered outcome of parsing one file.
type document struct {
	File     string               `json:"file" yaml:"file"`
	Mode     string               `json:"mode,omitempty" yaml:"mode,omitempty"`
	RunID    string               `json:"runId,omitempty" yaml:"runId,omitempty"`
	Options  []model.ParsedOption `json:"options,omitempty" yaml:"options,omitempty"`
	Warnings []string             `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error    string               `json:"error,omitempty" yaml:"error,omitempty"`
}

func newDocument(file string, result *engine.Result, warnings []optionslip.Warning) document {
	doc := document{
		File:    file,
		Mode:    result.Mode.String(),
		RunID:   result.RunID,
		Options: result.Options,
	}
	for _, w := range warnings {
		doc.Warnings = append(doc.Warnings, w.String())
	}
	return doc
}

// render writes v to w in the given format.
func render(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// extension returns the file extension for an output format.
func extension(format string) string {
	if format == "yaml" {
		return ".yaml"
	}
	return ".json"
}
