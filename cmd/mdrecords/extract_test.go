package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/mdrecords/internal/records"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExtract_Stdin(t *testing.T) {
	out, err := execute(t, "# Title\n\nBody\n", "extract")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var recs []map[string]any
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, out)
	}
	if len(recs) != 2 || recs[0]["kind"] != "heading" || recs[1]["anchor"] != "title" {
		t.Errorf("unexpected records %v", recs)
	}
}

func TestExtract_JSONLines(t *testing.T) {
	out, err := execute(t, "a\n\nb\n\nc\n", "extract", "--jsonl", "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	for i, line := range lines {
		var rec struct {
			Position int `json:"position"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if rec.Position != i+1 {
			t.Errorf("line %d: expected position %d, got %d", i, i+1, rec.Position)
		}
	}
}

func TestExtract_Pretty(t *testing.T) {
	out, err := execute(t, "text\n", "extract", "--pretty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "\n  {") {
		t.Errorf("expected indented output, got %q", out)
	}
}

func TestExtract_ExclusiveFlags(t *testing.T) {
	if _, err := execute(t, "", "extract", "--pretty", "--jsonl"); err == nil {
		t.Error("expected error for --pretty with --jsonl")
	}
}

func TestExtract_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "guide.md")
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(md, []byte("# Guide\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(txt, []byte("# plain\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "extract", md, txt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var docs []struct {
		Source  string           `json:"source"`
		Title   string           `json:"title"`
		Records []map[string]any `json:"records"`
	}
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Title != "guide" || docs[0].Records[0]["kind"] != "heading" {
		t.Errorf("unexpected markdown document %+v", docs[0])
	}
	if docs[1].Records[0]["kind"] != "paragraph" || docs[1].Records[0]["content"] != "# plain" {
		t.Errorf("text files should not produce headings: %+v", docs[1])
	}
}

func TestExtract_InvalidUTF8Fails(t *testing.T) {
	_, err := execute(t, "ok\n\xfe\n", "extract")
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *records.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Errorf("expected ParseError on line 2, got %v", err)
	}
}

func TestExtract_UnsupportedFile(t *testing.T) {
	if _, err := execute(t, "", "extract", "image.png"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
