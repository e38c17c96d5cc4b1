package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/kuro1999/isw2-dataset/internal/contract"
)

// csvFile is a dataset CSV opened for writing.
type csvFile struct {
	file *os.File
	csv  *csv.Writer
}

// createCSV opens path with the given flags and writes header first unless
// it is nil, which is how appends to an existing dataset start.
func createCSV(path string, flags int, header []string) (*csvFile, error) {
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	f := &csvFile{file: file, csv: csv.NewWriter(file)}
	if header != nil {
		if err := f.csv.Write(header); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	return f, nil
}

// close flushes buffered records and closes the file. A flush error wins
// over the close error.
func (f *csvFile) close() error {
	f.csv.Flush()
	if err := f.csv.Error(); err != nil {
		_ = f.file.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return f.file.Close()
}

// formatAverage renders the per-method averages of the dataset.
func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatShare renders part/total as a percentage for console tables.
func formatShare(part, total int) string {
	return strconv.FormatFloat(percent(part, total), 'f', 1, 64)
}

// writeJSONOutput encodes v as indented JSON to stdout, or replaces
// outputFile atomically so a reader never sees a partial document.
func writeJSONOutput(outputFile string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')

	if outputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := contract.WriteFileAtomic(outputFile, data); err != nil {
		return err
	}
	contract.Logger.WithField("file", outputFile).Info("Wrote JSON")
	return nil
}
