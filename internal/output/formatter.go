package output

import (
	"io"
	"time"

	"github.com/masmgr/commitgraph-go/internal/git"
	"github.com/masmgr/commitgraph-go/internal/graph"
)

// Compile-time interface conformance checks.
var (
	_ EdgeReportWriter = (*ConsoleEdgeWriter)(nil)
	_ EdgeReportWriter = (*JSONEdgeWriter)(nil)
	_ EdgeReportWriter = (*CSVEdgeWriter)(nil)
	_ EdgeReportWriter = (*MarkdownEdgeWriter)(nil)
	_ EdgeReportWriter = (*CIEdgeWriter)(nil)
	_ EdgeReportWriter = (*DOTEdgeWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
	FormatDOT      OutputFormat = "dot"
)

// Formats lists the accepted values of OutputFormat.
var Formats = []OutputFormat{FormatConsole, FormatJSON, FormatCSV, FormatMarkdown, FormatCI, FormatDOT}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int // limits the commit listing; edges are always complete
	OutputPath string
	Writer     io.Writer // destination when OutputPath is empty; nil means os.Stdout
}

// EdgeReport holds the commits selected for a file and the edges derived from them.
type EdgeReport struct {
	RepoPath    string
	Filename    string
	Glob        bool // Filename is a pattern
	GeneratedAt time.Time
	Commits     []git.CommitChangeSet
	Edges       []graph.Edge
}

// EdgeReportWriter writes edge reports.
type EdgeReportWriter interface {
	Write(report *EdgeReport, options OutputOptions) error
}

// NewEdgeReportWriter creates a report writer for the specified format.
func NewEdgeReportWriter(format OutputFormat) EdgeReportWriter {
	switch format {
	case FormatJSON:
		return &JSONEdgeWriter{}
	case FormatCSV:
		return &CSVEdgeWriter{}
	case FormatMarkdown:
		return &MarkdownEdgeWriter{}
	case FormatCI:
		return &CIEdgeWriter{}
	case FormatDOT:
		return &DOTEdgeWriter{}
	default:
		return &ConsoleEdgeWriter{}
	}
}

// ParseFormat validates a format name. The empty string selects console.
func ParseFormat(s string) (OutputFormat, bool) {
	if s == "" {
		return FormatConsole, true
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}
