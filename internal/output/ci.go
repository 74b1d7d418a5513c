package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIEdgeWriter writes edge reports as NDJSON (one JSON object per line) for CI pipelines.
type CIEdgeWriter struct{}

// CISummary is the first line of CI output, containing aggregate counts.
type CISummary struct {
	Type        string `json:"type"`
	File        string `json:"file"`
	CommitCount int    `json:"commitCount"`
	MergeCount  int    `json:"mergeCount"`
	EdgeCount   int    `json:"edgeCount"`
}

// CIEdgeEntry represents a single edge in CI output.
type CIEdgeEntry struct {
	Type   string `json:"type"`
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

// Write outputs the edge report as NDJSON.
func (w *CIEdgeWriter) Write(report *EdgeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	var merges int
	for _, cs := range report.Commits {
		if cs.Commit.IsMerge() {
			merges++
		}
	}

	summary := CISummary{
		Type:        "summary",
		File:        report.Filename,
		CommitCount: len(report.Commits),
		MergeCount:  merges,
		EdgeCount:   len(report.Edges),
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, e := range report.Edges {
		if err := writeNDJSONLine(out, CIEdgeEntry{Type: "edge", Parent: e.Parent, Child: e.Child}); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
