// Package docsource reads domain documents from a directory on disk.
package docsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupported is returned for documents whose extension has no extractor.
var ErrUnsupported = errors.New("unsupported document format")

var extractors = map[string]func(path string) (string, error){
	".txt":  readPlain,
	".md":   readPlain,
	".docx": readDocx,
}

// FS serves documents from a single directory. Names are file names
// relative to that directory; subdirectories are not searched.
type FS struct {
	dir string
}

func NewFS(dir string) *FS {
	return &FS{dir: dir}
}

func (s *FS) Dir() string {
	return s.dir
}

// Load returns the plain text of the named document.
func (s *FS) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("load document %q: invalid name", name)
	}

	extract, ok := extractors[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", fmt.Errorf("load document %q: %w", name, ErrUnsupported)
	}

	text, err := extract(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("load document %q: %w", name, err)
	}
	return text, nil
}

// Documents lists supported files in the directory, sorted by name.
func (s *FS) Documents(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if _, ok := extractors[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
