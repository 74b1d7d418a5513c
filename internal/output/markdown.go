package output

import (
	"fmt"
	"strings"
)

// MarkdownEdgeWriter writes edge reports as Markdown.
type MarkdownEdgeWriter struct{}

// Write outputs the edge report as Markdown.
func (w *MarkdownEdgeWriter) Write(report *EdgeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Commit Graph")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "- **Repository:** `%s`\n", report.RepoPath)
	fmt.Fprintf(out, "- **File:** `%s`\n", report.Filename)
	fmt.Fprintf(out, "- **Generated:** %s\n", report.GeneratedAt.Format(reportDateTimeLayout))
	fmt.Fprintf(out, "- **Commits:** %d\n", len(report.Commits))
	fmt.Fprintf(out, "- **Edges:** %d\n", len(report.Edges))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Commits")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | Commit | Date | Author | Parents | Message |")
	fmt.Fprintln(out, "|---|--------|------|--------|---------|---------|")
	for i, cs := range limitTop(report.Commits, options.Top) {
		parents := make([]string, 0, len(cs.Commit.ParentSHAs))
		for _, p := range cs.Commit.ParentSHAs {
			parents = append(parents, "`"+shortSHA(p)+"`")
		}
		fmt.Fprintf(out, "| %d | `%s` | %s | %s | %s | %s |\n",
			i+1,
			cs.Commit.ShortSHA(),
			cs.Commit.When.Format("2006-01-02"),
			escapeMarkdown(cs.Commit.Author.Name),
			strings.Join(parents, " "),
			escapeMarkdown(truncateMessage(cs.Commit.Message, 60)),
		)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Edges")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| Parent | Child |")
	fmt.Fprintln(out, "|--------|-------|")
	for _, e := range report.Edges {
		fmt.Fprintf(out, "| `%s` | `%s` |\n", e.Parent, e.Child)
	}

	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
