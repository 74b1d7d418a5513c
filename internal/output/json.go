package output

import (
	"encoding/json"
	"fmt"
)

// JSONEdgeWriter writes edge reports as JSON.
type JSONEdgeWriter struct{}

// JSONEdgeReport is the JSON structure for edge reports.
type JSONEdgeReport struct {
	RepoPath    string       `json:"repo"`
	Filename    string       `json:"file"`
	Glob        bool         `json:"glob,omitempty"`
	GeneratedAt string       `json:"generatedAt"`
	CommitCount int          `json:"commitCount"`
	EdgeCount   int          `json:"edgeCount"`
	Commits     []JSONCommit `json:"commits"`
	Edges       []JSONEdge   `json:"edges"`
}

// JSONCommit is one selected commit.
type JSONCommit struct {
	SHA     string      `json:"sha"`
	Parents []string    `json:"parents"`
	When    string      `json:"when"`
	Author  string      `json:"author"`
	Email   string      `json:"email"`
	Message string      `json:"message"`
	Change  *JSONChange `json:"change,omitempty"`
}

// JSONChange is the commit's change to the reported file.
type JSONChange struct {
	Kind         string `json:"kind"`
	Path         string `json:"path"`
	OldPath      string `json:"oldPath,omitempty"`
	LinesAdded   int    `json:"linesAdded"`
	LinesDeleted int    `json:"linesDeleted"`
}

// JSONEdge is one parent -> child link.
type JSONEdge struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

// Write outputs the edge report as JSON.
func (w *JSONEdgeWriter) Write(report *EdgeReport, options OutputOptions) error {
	commits := limitTop(report.Commits, options.Top)

	jsonCommits := make([]JSONCommit, 0, len(commits))
	for _, cs := range commits {
		parents := cs.Commit.ParentSHAs
		if parents == nil {
			parents = []string{}
		}
		jc := JSONCommit{
			SHA:     cs.Commit.SHA,
			Parents: parents,
			When:    cs.Commit.When.Format(reportDateTimeLayout),
			Author:  cs.Commit.Author.Name,
			Email:   cs.Commit.Author.Email,
			Message: cs.Commit.Message,
		}
		if fc := targetChange(cs, report); fc != nil {
			jc.Change = &JSONChange{
				Kind:         fc.Kind.String(),
				Path:         fc.Path,
				OldPath:      fc.OldPath,
				LinesAdded:   fc.LinesAdded,
				LinesDeleted: fc.LinesDeleted,
			}
		}
		jsonCommits = append(jsonCommits, jc)
	}

	jsonEdges := make([]JSONEdge, 0, len(report.Edges))
	for _, e := range report.Edges {
		jsonEdges = append(jsonEdges, JSONEdge{Parent: e.Parent, Child: e.Child})
	}

	jsonReport := JSONEdgeReport{
		RepoPath:    report.RepoPath,
		Filename:    report.Filename,
		Glob:        report.Glob,
		GeneratedAt: report.GeneratedAt.Format(reportDateTimeLayout),
		CommitCount: len(report.Commits),
		EdgeCount:   len(report.Edges),
		Commits:     jsonCommits,
		Edges:       jsonEdges,
	}

	return writeJSON(jsonReport, options)
}

func writeJSON(data interface{}, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
