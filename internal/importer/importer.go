// Package importer turns bank statement exports into canonical transactions.
//
// A file is loaded into a header-less Grid by a Loader chosen from its
// extension, the header row is located inside the grid, the statement format is
// detected from the header labels, and every data row is assembled into a
// model.Transaction or a model.Reject.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceKind distinguishes text exports from spreadsheet binaries.
type SourceKind string

const (
	KindCSV         SourceKind = "csv"
	KindSpreadsheet SourceKind = "spreadsheet"
)

// Sheet is the output of a Loader.
type Sheet struct {
	Grid     Grid
	Kind     SourceKind
	Encoding string // set for text sources only
}

// Loader converts raw file bytes into a Sheet.
type Loader interface {
	Load(name string, data []byte) (*Sheet, error)
	Extensions() []string
}

// Registry maps lower-case file extensions to loaders.
type Registry struct {
	loaders  map[string]Loader
	fallback Loader
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates a registry that falls back to fallback for unknown
// extensions.
func NewRegistry(fallback Loader) *Registry {
	return &Registry{loaders: make(map[string]Loader), fallback: fallback}
}

// Register adds a loader for each of its extensions. Panics on duplicates.
func (r *Registry) Register(l Loader) {
	for _, ext := range l.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.loaders[key]; ok {
			panic("duplicate loader extension: " + key)
		}
		r.loaders[key] = l
	}
}

// Get returns the loader registered for ext, or nil.
func (r *Registry) Get(ext string) Loader {
	return r.loaders[strings.ToLower(ext)]
}

// For returns the loader for a file name, falling back to the default loader.
func (r *Registry) For(name string) Loader {
	if l := r.Get(filepath.Ext(name)); l != nil {
		return l
	}
	return r.fallback
}

// Supported reports whether name has a registered extension.
func (r *Registry) Supported(name string) bool {
	return r.Get(filepath.Ext(name)) != nil
}

// DefaultRegistry returns a registry with all built-in loaders. Unknown
// extensions are read as CSV.
func DefaultRegistry() *Registry {
	csvLoader := &CSVLoader{}
	r := NewRegistry(csvLoader)
	r.Register(csvLoader)
	r.Register(&XLSXLoader{})
	r.Register(&XLSLoader{})
	return r
}

// importDir is the subdirectory for statement files awaiting import.
const importDir = "import"

// processedDir is the subdirectory for imported statement files.
const processedDir = "import/processed"

// Scan returns statement files in <repoRoot>/import/ that reg can load.
func Scan(repoRoot string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !reg.Supported(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
