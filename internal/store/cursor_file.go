package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
)

// CursorFile is the on-disk pagination log of one (collection, entity) feed.
// One cursor per line; the last line is the resume hint. The database watermark
// stays authoritative, this file only helps resume after a crash between pages.
type CursorFile struct {
	fs   adapter.FileSystem
	dir  string
	path string
}

// NewCursorFile returns the cursor file of a collection feed under dir
func NewCursorFile(fs adapter.FileSystem, dir, collectionSlug string, entity domain.EntityType) *CursorFile {
	name := fmt.Sprintf("%s_%s.txt", sanitizeFileName(collectionSlug), entity)
	return &CursorFile{fs: fs, dir: dir, path: filepath.Join(dir, name)}
}

// Path returns the file location
func (c *CursorFile) Path() string {
	return c.path
}

// Last returns the most recently appended cursor, or "" when there is none
func (c *CursorFile) Last() (string, error) {
	data, err := c.fs.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read cursor file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line, nil
		}
	}
	return "", nil
}

// Append records a cursor as the new resume hint
func (c *CursorFile) Append(cursor string) error {
	if cursor == "" {
		return nil
	}
	if err := c.fs.MkdirAll(c.dir); err != nil {
		return fmt.Errorf("failed to create cursor directory: %w", err)
	}

	f, err := c.fs.OpenAppend(c.path)
	if err != nil {
		return fmt.Errorf("failed to open cursor file: %w", err)
	}
	if _, err := f.Write([]byte(cursor + "\n")); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append cursor: %w", err)
	}
	return f.Close()
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, s)
}
