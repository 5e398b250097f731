// Package nativefs contains the core domain types and interfaces for the
// native filesystem facade
package nativefs

import (
	"context"
	"os"
	"time"
)

// Facade is the full set of operations exposed over native filesystem paths.
// [github.com/brettbedarf/nativefs/filesystem.Fs] is the concrete implementation.
//
// Mutating operations report success as a nil error. Any non-nil error wraps the
// underlying OS cause in an [OpError].
type Facade interface {
	// Touch sets access and modification time to t (now if t is zero),
	// creating an empty file if path does not exist
	Touch(path string, t time.Time) error

	// CreateFile writes an empty file (creating parents) and sets its mode.
	// A zero mode uses the configured default file mode
	CreateFile(path string, mode os.FileMode) error

	// CreateDir creates a directory, and its missing parents when recursive.
	// Fails if the directory already exists
	CreateDir(path string, mode os.FileMode, recursive bool) error

	// ReadFile returns the whole content, optionally under a shared lock
	ReadFile(path string, lock bool) ([]byte, error)

	// ReadString returns the content or "" on any failure
	ReadString(path string, lock bool) string

	// ReadFileLines returns the file split into lines without line endings
	ReadFileLines(path string, skipEmpty bool) ([]string, error)

	WriteFile(path string, content []byte, lock bool) error
	AppendFile(path string, content []byte, lock bool) error
	PrependFile(path string, content []byte, lock bool) error
	WriteFileAtomic(path string, content []byte, mode os.FileMode) error

	// Size returns the byte length of a file or the recursive size of a
	// directory. Nonexistent paths have size 0
	Size(path string) int64

	// ListDir returns the names of the immediate children of a directory
	ListDir(path string, opts ListOptions) ([]string, error)

	HashFile(path string, typ HashType) (string, error)

	Rename(from, to string) error
	Delete(path string, recursive bool) error
	Copy(from, to string, replace bool) error
	CopyVerified(from, to string, replace bool) error
	Move(from, to string, replace bool) error

	Mimetype(path string) (string, error)

	// Chmod sets the mode when mode > 0, otherwise returns the current
	// permission bits as a 4 digit octal string
	Chmod(path string, mode os.FileMode) (string, error)
	GetPermissions(path string) (string, error)
	SetPermissions(path string, mode os.FileMode) error

	Type(path string) (FileType, error)
	Exists(path string) bool
	IsFile(path string) bool
	IsDir(path string) bool
	IsReadable(path string) bool
	IsWritable(path string) bool
	Atime(path string) (int64, error)
	Ctime(path string) (int64, error)
	Mtime(path string) (int64, error)

	// Export serializes data into a file whose extension selects the format
	Export(path string, data any) error
	// Import decodes a file written by Export into out
	Import(path string, out any) error

	// Find walks root and returns the relative paths of files matching pattern
	Find(ctx context.Context, root, pattern string) ([]string, error)
}
