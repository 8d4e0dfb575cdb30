package corpus

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"cassprep/internal/faults"
)

// Extensions of the files the commands read.
const (
	MarkupExt = ".xml"
	StoryExt  = ".story"
)

// Document is one corpus file.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Reader enumerates documents below Root.
type Reader struct {
	Root      string
	Extension string
	// Recursive descends into subdirectories. Story directories are flat;
	// the markup archive nests files by court and year.
	Recursive bool
}

// NewMarkupReader returns a recursive reader for .xml files.
func NewMarkupReader(root string) *Reader {
	return &Reader{Root: root, Extension: MarkupExt, Recursive: true}
}

// NewStoryReader returns a flat reader for .story files.
func NewStoryReader(root string) *Reader {
	return &Reader{Root: root, Extension: StoryExt}
}

// Walk calls fn for every matching file in lexical order. It stops at the
// first error returned by fn, a read failure, or context cancellation.
func (r *Reader) Walk(ctx context.Context, fn func(Document) error) error {
	return r.walkPaths(ctx, func(path string) error {
		doc, err := r.Read(path)
		if err != nil {
			return err
		}
		return fn(doc)
	})
}

// IDs returns the identifiers of every matching file without reading content.
func (r *Reader) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.walkPaths(ctx, func(path string) error {
		ids = append(ids, r.idFor(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Read loads and decodes a single file.
func (r *Reader) Read(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, faults.Wrap(faults.ErrIO, "corpus", "open document", path, err)
	}
	defer file.Close()

	content, err := io.ReadAll(transform.NewReader(file, xunicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return Document{}, faults.Wrap(faults.ErrIO, "corpus", "read document", path, err)
	}
	return Document{ID: r.idFor(path), Path: path, Content: string(content)}, nil
}

func (r *Reader) idFor(path string) string {
	return strings.TrimSuffix(filepath.Base(path), r.Extension)
}

func (r *Reader) walkPaths(ctx context.Context, fn func(string) error) error {
	info, err := os.Stat(r.Root)
	if err != nil {
		return faults.Wrap(faults.ErrIO, "corpus", "open directory", r.Root, err)
	}
	if !info.IsDir() {
		return faults.Wrap(faults.ErrConfiguration, "corpus", "open directory", r.Root+" is not a directory", nil)
	}

	return filepath.WalkDir(r.Root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return faults.Wrap(faults.ErrIO, "corpus", "walk", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if path != r.Root && !r.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != r.Extension {
			return nil
		}
		return fn(path)
	})
}
