package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleEdgeWriter writes edge reports as colored tables.
type ConsoleEdgeWriter struct{}

// Write outputs the edge report to the console.
func (w *ConsoleEdgeWriter) Write(report *EdgeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Commit Graph Edges")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "File: %s\n", report.Filename)
	fmt.Fprintf(out, "Commits: %d  Edges: %d\n\n", len(report.Commits), len(report.Edges))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tCommit\tDate\tAuthor\t+/-\tMessage")
	for i, cs := range limitTop(report.Commits, options.Top) {
		churn := "-"
		if fc := targetChange(cs, report); fc != nil {
			churn = fmt.Sprintf("+%d/-%d", fc.LinesAdded, fc.LinesDeleted)
		}
		sha := cs.Commit.ShortSHA()
		if cs.Commit.IsMerge() {
			sha = color.CyanString(sha)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			sha,
			cs.Commit.When.Format("2006-01-02"),
			cs.Commit.Author.Name,
			churn,
			truncateMessage(cs.Commit.Message, 50),
		)
	}
	tw.Flush()

	fmt.Fprintln(out)
	color.New(color.FgYellow).Fprintln(out, "Edges (parent -> child)")
	for _, e := range report.Edges {
		fmt.Fprintf(out, "  %s -> %s\n", e.Parent, e.Child)
	}

	return nil
}
