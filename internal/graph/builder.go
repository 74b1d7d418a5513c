// Package graph derives parent/child edges from commits and serializes them
// as a Graphviz DOT document.
package graph

import (
	"io"
	"strings"

	"github.com/masmgr/commitgraph-go/internal/git"
)

const (
	documentHeader = "digraph G {\n"
	documentFooter = "}\n"
)

// Edge is a directed link from a parent commit to its child.
type Edge struct {
	Parent string
	Child  string
}

// Build emits one edge per (commit, parent) pair: commits in input order,
// parents in the order the repository recorded them. Edges are neither
// sorted nor de-duplicated, and parents need not be part of commits.
func Build(commits []git.CommitInfo) []Edge {
	var edges []Edge
	for _, c := range commits {
		for _, parent := range c.ParentSHAs {
			edges = append(edges, Edge{Parent: parent, Child: c.SHA})
		}
	}
	return edges
}

// Document serializes edges as a DOT digraph. Identifiers are written
// verbatim inside double quotes.
func Document(edges []Edge) string {
	var sb strings.Builder
	sb.Grow(len(documentHeader) + len(documentFooter) + len(edges)*96)
	writeDocument(&sb, edges)
	return sb.String()
}

// BuildDocument is Document(Build(commits)).
func BuildDocument(commits []git.CommitInfo) string {
	return Document(Build(commits))
}

// WriteDocument streams the DOT document for edges to w.
func WriteDocument(w io.Writer, edges []Edge) error {
	var sb strings.Builder
	writeDocument(&sb, edges)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeDocument(sb *strings.Builder, edges []Edge) {
	sb.WriteString(documentHeader)
	for _, e := range edges {
		sb.WriteString(`  "`)
		sb.WriteString(e.Parent)
		sb.WriteString(`" -> "`)
		sb.WriteString(e.Child)
		sb.WriteString("\";\n")
	}
	sb.WriteString(documentFooter)
}
