package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.py", []byte("x = 1"), 0)
	if id1 != 0 {
		t.Fatalf("expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.py")
	if !exists || latestID != id1 {
		t.Fatalf("expected latest ID %d, got %d (exists=%v)", id1, latestID, exists)
	}

	id2 := fs.Add("test.py", []byte("x = 2"), 0)
	if id2 != 1 {
		t.Fatalf("expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("test.py")
	if latestID != id2 {
		t.Fatalf("expected latest ID %d after re-add, got %d", id2, latestID)
	}
	if got := string(fs.Get(id1).Content); got != "x = 1" {
		t.Fatalf("old version lost, got %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Fatalf("expected nil for unknown file id")
	}
}

func TestFileGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("prog.py", []byte("x = 1\nx.wrong_name\n"))
	f := fs.Get(id)

	cases := map[uint32]string{
		0: "",
		1: "x = 1",
		2: "x.wrong_name",
		3: "",
		9: "",
	}
	for line, want := range cases {
		if got := f.GetLine(line); got != want {
			t.Fatalf("line %d: want %q, got %q", line, want, got)
		}
	}
	if got := fs.LineText(At(id, 2, 0)); got != "x.wrong_name" {
		t.Fatalf("LineText: got %q", got)
	}
}

func TestLineTextSkipsDocuments(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("prog.ast.json", []byte("{\"kind\": \"Module\"}"), FileDocument)
	if got := fs.LineText(At(id, 1, 0)); got != "" {
		t.Fatalf("expected no program text for documents, got %q", got)
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.py")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a = 1\r\nb = 2\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path, 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if got := f.GetLine(2); got != "b = 2" {
		t.Fatalf("line 2: got %q", got)
	}
}
