package output

import (
	"io"
	"os"

	"github.com/masmgr/commitgraph-go/internal/git"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func openOutputWriter(options OutputOptions) (io.Writer, *os.File, error) {
	if options.OutputPath == "" {
		if options.Writer != nil {
			return options.Writer, nil, nil
		}
		return os.Stdout, nil, nil
	}
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// targetChange returns the change a commit made to the reported file, or
// nil when the report was selected by pattern and no single path applies.
func targetChange(cs git.CommitChangeSet, report *EdgeReport) *git.FileChange {
	if report.Glob || report.Filename == "" {
		return nil
	}
	return cs.ChangeFor(report.Filename)
}

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}
