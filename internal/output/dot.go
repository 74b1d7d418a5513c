package output

import "github.com/masmgr/commitgraph-go/internal/graph"

// DOTEdgeWriter writes the graph document the renderer would receive.
type DOTEdgeWriter struct{}

// Write outputs the DOT document for the report's edges.
func (w *DOTEdgeWriter) Write(report *EdgeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return graph.WriteDocument(out, report.Edges)
}
