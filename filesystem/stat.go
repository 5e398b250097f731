package filesystem

import (
	"os"
	"time"

	"github.com/brettbedarf/nativefs"
)

// Type reports what kind of node path is without following a final symlink.
func (fs *Fs) Type(path string) (typ nativefs.FileType, err error) {
	defer fs.track(opType, path, time.Now(), &err)

	info, err := os.Lstat(path)
	if err != nil {
		return nativefs.UnknownType, nativefs.NewOpError(opType, path, err)
	}
	return fileType(info.Mode()), nil
}

func fileType(m os.FileMode) nativefs.FileType {
	switch {
	case m&os.ModeNamedPipe != 0:
		return nativefs.FifoType
	case m&os.ModeCharDevice != 0:
		return nativefs.CharType
	case m.IsDir():
		return nativefs.DirType
	case m&os.ModeDevice != 0:
		return nativefs.BlockType
	case m&os.ModeSymlink != 0:
		return nativefs.LinkType
	case m.IsRegular():
		return nativefs.FileRegType
	case m&os.ModeSocket != 0:
		return nativefs.SocketType
	default:
		return nativefs.UnknownType
	}
}

// Exists reports whether path resolves to anything. Broken symlinks do not.
func (fs *Fs) Exists(path string) bool {
	return fs.exists(path)
}

// IsFile reports whether path resolves to a regular file
func (fs *Fs) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path resolves to a directory
func (fs *Fs) IsDir(path string) bool {
	return fs.isDir(path)
}

// IsReadable reports whether the calling process may read path
func (fs *Fs) IsReadable(path string) bool {
	return canRead(path)
}

// IsWritable reports whether the calling process may write path
func (fs *Fs) IsWritable(path string) bool {
	return canWrite(path)
}

// Atime returns the last access time in Unix seconds
func (fs *Fs) Atime(path string) (sec int64, err error) {
	defer fs.track(opStat, path, time.Now(), &err)

	info, err := os.Stat(path)
	if err != nil {
		return 0, nativefs.NewOpError(opStat, path, err)
	}
	return atimeOf(info).Unix(), nil
}

// Ctime returns the last status change time in Unix seconds
func (fs *Fs) Ctime(path string) (sec int64, err error) {
	defer fs.track(opStat, path, time.Now(), &err)

	info, err := os.Stat(path)
	if err != nil {
		return 0, nativefs.NewOpError(opStat, path, err)
	}
	return ctimeOf(info).Unix(), nil
}

// Mtime returns the last modification time in Unix seconds
func (fs *Fs) Mtime(path string) (sec int64, err error) {
	defer fs.track(opStat, path, time.Now(), &err)

	info, err := os.Stat(path)
	if err != nil {
		return 0, nativefs.NewOpError(opStat, path, err)
	}
	return info.ModTime().Unix(), nil
}

func (fs *Fs) exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (fs *Fs) isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
