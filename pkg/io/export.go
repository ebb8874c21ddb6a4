package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// Pattern output formats.
const (
	FormatSPMF = "spmf"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Formats lists the supported pattern formats.
var Formats = []string{FormatSPMF, FormatJSON, FormatCSV}

type document struct {
	Patterns []record `json:"patterns"`
}

type record struct {
	Items   []int `json:"items"`
	Support int   `json:"support"`
	Bound   int   `json:"bound"`
}

// WritePatterns encodes patterns in format and writes them to w. Items are
// written in ascending order.
func WritePatterns(w io.Writer, patterns []pattern.Itemset, format string) error {
	switch format {
	case FormatSPMF:
		return WriteSPMF(w, patterns)
	case FormatJSON:
		return WriteJSON(w, patterns)
	case FormatCSV:
		return WriteCSV(w, patterns)
	default:
		return fmt.Errorf("unsupported pattern format: %q", format)
	}
}

// WriteSPMF writes one SPMF line per pattern.
func WriteSPMF(w io.Writer, patterns []pattern.Itemset) error {
	for _, p := range patterns {
		if _, err := fmt.Fprintln(w, p.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes patterns as an indented JSON document.
func WriteJSON(w io.Writer, patterns []pattern.Itemset) error {
	out := document{Patterns: make([]record, len(patterns))}
	for i, p := range patterns {
		out.Patterns[i] = record{Items: p.Sorted(), Support: p.Support, Bound: p.Bound}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCSV writes patterns with a header row.
func WriteCSV(w io.Writer, patterns []pattern.Itemset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"items", "support", "bound"}); err != nil {
		return err
	}
	for _, p := range patterns {
		row := []string{p.Key(), strconv.Itoa(p.Support), strconv.Itoa(p.Bound)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportPatterns writes patterns to a file at path.
// This is a convenience wrapper around [WritePatterns] for file-based output.
func ExportPatterns(patterns []pattern.Itemset, path, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WritePatterns(f, patterns, format)
}
