package output

import (
	"fmt"
	"testing"
)

func TestNewEdgeReportWriter(t *testing.T) {
	tests := []struct {
		name         string
		format       OutputFormat
		expectedType string
	}{
		{name: "Console", format: FormatConsole, expectedType: "*output.ConsoleEdgeWriter"},
		{name: "JSON", format: FormatJSON, expectedType: "*output.JSONEdgeWriter"},
		{name: "CSV", format: FormatCSV, expectedType: "*output.CSVEdgeWriter"},
		{name: "Markdown", format: FormatMarkdown, expectedType: "*output.MarkdownEdgeWriter"},
		{name: "CI", format: FormatCI, expectedType: "*output.CIEdgeWriter"},
		{name: "DOT", format: FormatDOT, expectedType: "*output.DOTEdgeWriter"},
		{name: "Unknown defaults to Console", format: "unknown", expectedType: "*output.ConsoleEdgeWriter"},
		{name: "Empty defaults to Console", format: "", expectedType: "*output.ConsoleEdgeWriter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewEdgeReportWriter(tt.format)
			if writer == nil {
				t.Fatal("NewEdgeReportWriter returned nil")
			}
			if got := fmt.Sprintf("%T", writer); got != tt.expectedType {
				t.Errorf("NewEdgeReportWriter(%q) = %s, expected %s", tt.format, got, tt.expectedType)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputFormat
		ok       bool
	}{
		{input: "", expected: FormatConsole, ok: true},
		{input: "console", expected: FormatConsole, ok: true},
		{input: "json", expected: FormatJSON, ok: true},
		{input: "csv", expected: FormatCSV, ok: true},
		{input: "markdown", expected: FormatMarkdown, ok: true},
		{input: "ci", expected: FormatCI, ok: true},
		{input: "dot", expected: FormatDOT, ok: true},
		{input: "png", ok: false},
		{input: "JSON", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseFormat(tt.input)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ParseFormat(%q) = (%q, %v), expected (%q, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}
