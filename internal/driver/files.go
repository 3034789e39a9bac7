package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"duckcheck/internal/ast"
)

// documentSuffixes are the names picked up when walking a directory.
// Explicit file arguments only need a supported extension.
var documentSuffixes = []string{".ast.json", ".ast.msgpack", ".ast.mp", ".ast.yaml", ".ast.yml"}

func isDocumentName(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range documentSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// ListDocuments expands targets into a sorted, duplicate-free list of AST
// documents. Hidden directories are skipped.
func ListDocuments(targets []string) ([]string, error) {
	var out []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			if _, ok := ast.FormatForPath(target); !ok {
				return nil, fmt.Errorf("%s: unsupported document format (want .json, .msgpack or .yaml)", target)
			}
			out = append(out, filepath.Clean(target))
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isDocumentName(d.Name()) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// ProgramTextPath returns the path of the program text a document was
// parsed from: "pkg/mod.ast.json" -> "pkg/mod.py".
func ProgramTextPath(docPath string) string {
	base := docPath
	lower := strings.ToLower(base)
	for _, s := range documentSuffixes {
		if strings.HasSuffix(lower, s) {
			return base[:len(base)-len(s)] + ".py"
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".py"
}
