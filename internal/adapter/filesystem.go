package adapter

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// FileSystem defines an interface for file system operations to enable mocking
//
//go:generate mockgen -source=filesystem.go -destination=../mocks/filesystem.go -package=mocks -mock_names=FileSystem=MockFileSystem
type FileSystem interface {
	// OpenAppend opens the named file for appending, creating it when missing
	OpenAppend(name string) (File, error)

	// ReadFile reads the whole named file
	ReadFile(name string) ([]byte, error)

	// MkdirAll creates a directory and all missing parents
	MkdirAll(path string) error
}

// File defines an interface for file operations
type File interface {
	io.Writer
	io.Closer
}

// AferoFileSystem implements FileSystem on top of an afero file system
type AferoFileSystem struct {
	fs afero.Fs
}

// NewFileSystem creates a file system backed by the OS
func NewFileSystem() FileSystem {
	return &AferoFileSystem{fs: afero.NewOsFs()}
}

// NewMemFileSystem creates an in-memory file system
func NewMemFileSystem() FileSystem {
	return &AferoFileSystem{fs: afero.NewMemMapFs()}
}

// OpenAppend opens the named file for appending, creating it when missing
func (f *AferoFileSystem) OpenAppend(name string) (File, error) {
	return f.fs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// ReadFile reads the whole named file
func (f *AferoFileSystem) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(f.fs, name)
}

// MkdirAll creates a directory and all missing parents
func (f *AferoFileSystem) MkdirAll(path string) error {
	return f.fs.MkdirAll(path, 0o755)
}
