package output

import (
	"encoding/csv"
	"os"
)

// CSVEdgeWriter writes edge reports as CSV, one parent,child row per edge.
type CSVEdgeWriter struct{}

// Write outputs the edge list as CSV.
func (w *CSVEdgeWriter) Write(report *EdgeReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"parent", "child"}); err != nil {
		return err
	}
	for _, e := range report.Edges {
		if err := writer.Write([]string{e.Parent, e.Child}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(options OutputOptions) (*csv.Writer, *os.File, error) {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(out), file, nil
}
