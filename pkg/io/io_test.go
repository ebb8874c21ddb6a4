package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

func samplePatterns() []pattern.Itemset {
	return []pattern.Itemset{
		pattern.New([]int{3}, pattern.Stat{Support: 3}),
		pattern.New([]int{2, 1}, pattern.Stat{Support: 2, Bound: 1}),
	}
}

func TestWriteSPMF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePatterns(&buf, samplePatterns(), FormatSPMF); err != nil {
		t.Fatalf("WritePatterns: %v", err)
	}
	want := "3  #SUP: 3  #MAXLA: 0\n1 2  #SUP: 2  #MAXLA: 1\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePatterns(&buf, samplePatterns(), FormatCSV); err != nil {
		t.Fatalf("WritePatterns: %v", err)
	}
	want := "items,support,bound\n3,3,0\n1 2,2,1\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := WritePatterns(&bytes.Buffer{}, nil, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, samplePatterns()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"items": [`) {
		t.Errorf("unexpected JSON:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d patterns, want 2", len(got))
	}
	if got[1].Key() != "1 2" || got[1].Support != 2 || got[1].Bound != 1 {
		t.Errorf("pattern 1 = %+v", got[1])
	}
}

func TestReadJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"patterns": [`},
		{"no items", `{"patterns": [{"items": [], "support": 1}]}`},
		{"repeated item", `{"patterns": [{"items": [1, 1], "support": 1}]}`},
		{"zero support", `{"patterns": [{"items": [1], "support": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadSPMF(t *testing.T) {
	input := "1 2  #SUP: 2  #MAXLA: 1\n\n7 #SUP: 5\n"
	got, err := ReadSPMF(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSPMF: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d patterns, want 2", len(got))
	}
	if got[0].String() != "1 2  #SUP: 2  #MAXLA: 1" {
		t.Errorf("pattern 0 = %s", got[0])
	}
	if got[1].Support != 5 || got[1].Bound != 0 {
		t.Errorf("pattern 1 = %+v", got[1])
	}

	if _, err := ReadSPMF(strings.NewReader("1 2\n")); err == nil {
		t.Error("expected error for missing #SUP")
	}
	if _, err := ReadSPMF(strings.NewReader("a  #SUP: 1\n")); err == nil {
		t.Error("expected error for non-integer item")
	}
}

func TestExportPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := ExportPatterns(samplePatterns(), path, FormatSPMF); err != nil {
		t.Fatalf("ExportPatterns: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadSPMF(bytes.NewReader(data))
	if err != nil || len(got) != 2 {
		t.Errorf("re-read %d patterns, err %v", len(got), err)
	}
}
