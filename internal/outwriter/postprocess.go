package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// CompareFunc orders two release names.
type CompareFunc func(a, b string) int

// ProcessStats reports how many records a pass read and wrote.
type ProcessStats struct {
	Read    int
	Written int
}

// Removed returns how many records the pass dropped.
func (s ProcessStats) Removed() int {
	return s.Read - s.Written
}

// Deduplicate copies input to output keeping the first occurrence of every
// identical record. The header is kept once.
func Deduplicate(input, output string) (ProcessStats, error) {
	return transform(input, output, func([]string, int) bool { return true })
}

// FilterUpTo deduplicates input and keeps only the records whose Version
// compares less than or equal to cut.
func FilterUpTo(input, output, cut string, compare CompareFunc) (ProcessStats, error) {
	return transform(input, output, func(rec []string, versionIdx int) bool {
		return compare(rec[versionIdx], cut) <= 0
	})
}

// Reduce collapses records that are equal on every column except Version into
// the record with the oldest release. Output keeps the order in which each
// group was first seen.
func Reduce(input, output string, compare CompareFunc) (ProcessStats, error) {
	var stats ProcessStats
	header, records, err := readDataset(input)
	if err != nil {
		return stats, err
	}
	versionIdx, err := versionColumn(header)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", input, err)
	}
	stats.Read = len(records)

	var order []string
	best := map[string][]string{}
	for _, rec := range records {
		key := recordKey(rec, versionIdx)
		stored, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = rec
			continue
		}
		if compare(rec[versionIdx], stored[versionIdx]) < 0 {
			best[key] = rec
		}
	}

	reduced := make([][]string, 0, len(order))
	for _, key := range order {
		reduced = append(reduced, best[key])
	}
	stats.Written = len(reduced)
	return stats, writeDataset(output, header, reduced)
}

// CopyDataset copies input to output unchanged.
func CopyDataset(input, output string) error {
	src, err := os.Open(input)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	dst, err := os.Create(output)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func transform(input, output string, keep func(rec []string, versionIdx int) bool) (ProcessStats, error) {
	var stats ProcessStats
	header, records, err := readDataset(input)
	if err != nil {
		return stats, err
	}
	versionIdx, err := versionColumn(header)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", input, err)
	}
	stats.Read = len(records)

	seen := map[string]struct{}{}
	var kept [][]string
	for _, rec := range records {
		if !keep(rec, versionIdx) {
			continue
		}
		key := recordKey(rec, -1)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, rec)
	}
	stats.Written = len(kept)
	return stats, writeDataset(output, header, kept)
}

// readDataset reads a CSV with a header row. Fields are trimmed.
func readDataset(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%s: empty dataset", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, rec := range records {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
	}
	return header, records, nil
}

func writeDataset(path string, header []string, records [][]string) error {
	out, err := createCSV(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, header)
	if err != nil {
		return err
	}
	if err := out.csv.WriteAll(records); err != nil {
		_ = out.file.Close()
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return out.close()
}

func versionColumn(header []string) (int, error) {
	idx := slices.Index(header, "Version")
	if idx < 0 {
		return -1, errors.New(`missing "Version" column`)
	}
	return idx, nil
}

// recordKey joins every field except the one at skip with a unit separator.
func recordKey(rec []string, skip int) string {
	var sb strings.Builder
	for i, field := range rec {
		if i == skip {
			continue
		}
		sb.WriteString(field)
		sb.WriteByte('\x1f')
	}
	return sb.String()
}
