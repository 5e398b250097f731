package nativefs

import "os"

// Permission presets
const (
	ModeFilePrivate os.FileMode = 0o600 // owner rw
	ModeFilePublic  os.FileMode = 0o644 // owner rw, group/other r
	ModeDirPrivate  os.FileMode = 0o700 // owner rwx
	ModeDirPublic   os.FileMode = 0o755 // owner rwx, group/other rx
)

// HashType identifies a content hash algorithm. Unknown values fall back to
// HashMD5.
type HashType string

const (
	HashMD5     HashType = "md5"
	HashSHA1    HashType = "sha1"
	HashSHA256  HashType = "sha256"
	HashBLAKE2b HashType = "blake2b" // 256-bit digest
)

// FileType valid types are the ones reported by [Facade.Type]
type FileType string

const (
	FifoType    FileType = "fifo"
	CharType    FileType = "char"
	DirType     FileType = "dir"
	BlockType   FileType = "block"
	LinkType    FileType = "link"
	FileRegType FileType = "file"
	SocketType  FileType = "socket"
	UnknownType FileType = "unknown"
)

// ExportFormat names a registered serialization format
type ExportFormat string

const (
	JSONFormat ExportFormat = "json"
	YAMLFormat ExportFormat = "yaml"
	TOMLFormat ExportFormat = "toml"
)

// ListOptions filters [Facade.ListDir] results
type ListOptions struct {
	// OnlyFiles excludes directories
	OnlyFiles bool
	// Extensions keeps only entries with one of these extensions (without the
	// leading dot). Only applied together with OnlyFiles
	Extensions []string
	// Pattern is a doublestar glob matched against each entry name
	Pattern string
}
