package outwriter

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/schema"
)

// DatasetWriter appends dataset rows to a CSV file across releases.
type DatasetWriter struct {
	out  *csvFile
	rows int
}

// OpenDataset opens the dataset CSV at path. A fresh file is truncated and
// gets the header; with appendRows the rows are added after existing content
// and no header is written.
func OpenDataset(path string, appendRows bool) (*DatasetWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	header := schema.DatasetHeader
	if appendRows {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		header = nil
	}
	out, err := createCSV(path, flags, header)
	if err != nil {
		return nil, err
	}
	return &DatasetWriter{out: out}, nil
}

// WriteRows appends rows in order.
func (w *DatasetWriter) WriteRows(rows []schema.DatasetRow) error {
	for _, r := range rows {
		if err := w.out.csv.Write(FormatRow(r)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
		w.rows++
	}
	return nil
}

// Rows returns the number of rows written through w.
func (w *DatasetWriter) Rows() int {
	return w.rows
}

// Close flushes and closes the file.
func (w *DatasetWriter) Close() error {
	return w.out.close()
}

// FormatRow renders a row in header order with two-decimal averages.
func FormatRow(r schema.DatasetRow) []string {
	itoa := strconv.Itoa
	return []string{
		r.Version,
		r.FileName,
		r.MethodName,
		itoa(r.LOC),
		itoa(r.CognitiveComplexity),
		itoa(r.CyclomaticComplexity),
		itoa(r.CodeSmells),
		itoa(r.NestingDepth),
		itoa(r.ParameterCount),
		itoa(r.ChurnTotal),
		formatAverage(r.AvgAdded),
		itoa(r.MaxAdded),
		formatAverage(r.AvgDeleted),
		itoa(r.MaxDeleted),
		formatAverage(r.AvgChurn),
		itoa(r.MaxChurn),
		itoa(r.ElseAdded),
		itoa(r.ElseDeleted),
		itoa(r.CondChanges),
		itoa(r.DecisionPoints),
		itoa(r.Histories),
		itoa(r.Authors),
		contract.GetPlainLabel(r.Buggy),
	}
}

// ParseRow is the inverse of FormatRow. The record must follow DatasetHeader.
func ParseRow(record []string) (schema.DatasetRow, error) {
	if len(record) != len(schema.DatasetHeader) {
		return schema.DatasetRow{}, fmt.Errorf("expected %d columns, got %d", len(schema.DatasetHeader), len(record))
	}
	p := rowParser{record: record}
	r := schema.DatasetRow{
		Version:              record[0],
		FileName:             record[1],
		MethodName:           record[2],
		LOC:                  p.int(3),
		CognitiveComplexity:  p.int(4),
		CyclomaticComplexity: p.int(5),
		CodeSmells:           p.int(6),
		NestingDepth:         p.int(7),
		ParameterCount:       p.int(8),
		ChurnTotal:           p.int(9),
		AvgAdded:             p.float(10),
		MaxAdded:             p.int(11),
		AvgDeleted:           p.float(12),
		MaxDeleted:           p.int(13),
		AvgChurn:             p.float(14),
		MaxChurn:             p.int(15),
		ElseAdded:            p.int(16),
		ElseDeleted:          p.int(17),
		CondChanges:          p.int(18),
		DecisionPoints:       p.int(19),
		Histories:            p.int(20),
		Authors:              p.int(21),
		Buggy:                record[22] == schema.BuggyYes,
	}
	if p.err != nil {
		return schema.DatasetRow{}, p.err
	}
	return r, nil
}

// rowParser keeps the first conversion error of a record.
type rowParser struct {
	record []string
	err    error
}

func (p *rowParser) int(i int) int {
	v, err := strconv.Atoi(p.record[i])
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", schema.DatasetHeader[i], err)
	}
	return v
}

func (p *rowParser) float(i int) float64 {
	v, err := strconv.ParseFloat(p.record[i], 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", schema.DatasetHeader[i], err)
	}
	return v
}

// ReadDatasetRows parses every record of a dataset CSV written by DatasetWriter.
func ReadDatasetRows(path string) ([]schema.DatasetRow, error) {
	_, records, err := readDataset(path)
	if err != nil {
		return nil, err
	}
	rows := make([]schema.DatasetRow, 0, len(records))
	for i, rec := range records {
		r, err := ParseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i+1, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}
