package filesystem

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"

	"github.com/brettbedarf/nativefs"
)

// Size returns the byte length of a file, or the recursive total of a
// directory's children. Missing paths and special files count as 0.
//
// Directories are listed again on every call. Symlinks are followed, except
// into a directory that is already being walked, so link cycles count once.
func (fs *Fs) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fs.sizeOf(path, info, nil)
}

func (fs *Fs) sizeOf(path string, info os.FileInfo, parents []os.FileInfo) int64 {
	switch {
	case info.Mode().IsRegular():
		return info.Size()
	case !info.IsDir(), onPath(info, parents):
		return 0
	}

	names, err := readDirNames(path)
	if err != nil {
		return 0
	}
	parents = append(parents, info)
	var total int64
	for _, name := range names {
		child := filepath.Join(path, name)
		childInfo, err := os.Stat(child)
		if err != nil {
			continue
		}
		total += fs.sizeOf(child, childInfo, parents)
	}
	return total
}

// onPath reports whether dir is one of the directories currently being walked
func onPath(dir os.FileInfo, parents []os.FileInfo) bool {
	return slices.ContainsFunc(parents, func(p os.FileInfo) bool {
		return os.SameFile(p, dir)
	})
}

// ListDir returns the names of the immediate children of path in the order
// the filesystem reports them.
func (fs *Fs) ListDir(path string, opts nativefs.ListOptions) (names []string, err error) {
	defer fs.track(opListDir, path, time.Now(), &err)

	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, nativefs.NewOpError(opListDir, path, doublestar.ErrBadPattern)
	}
	all, err := readDirNames(path)
	if err != nil {
		return nil, nativefs.NewOpError(opListDir, path, err)
	}

	exts := make([]string, 0, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}

	names = make([]string, 0, len(all))
	for _, name := range all {
		if opts.OnlyFiles {
			if fs.isDir(filepath.Join(path, name)) {
				continue
			}
			if len(exts) > 0 && !slices.Contains(exts, extensionOf(name)) {
				continue
			}
		}
		if opts.Pattern != "" {
			if ok, _ := doublestar.Match(opts.Pattern, name); !ok {
				continue
			}
		}
		names = append(names, name)
	}
	return names, nil
}

// Delete removes a file, or a directory. A non-empty directory is only
// removed when recursive; otherwise it is left untouched and
// [nativefs.ErrDirNotEmpty] is returned.
//
// A recursive delete attempts every child, deepest first in reverse listing
// order, and then the directory itself. Failures do not stop the walk; they
// are combined into the returned error. Symlinks are removed, never followed.
func (fs *Fs) Delete(path string, recursive bool) (err error) {
	defer fs.track(opDelete, path, time.Now(), &err)
	return nativefs.NewOpError(opDelete, path, fs.remove(path, recursive))
}

func (fs *Fs) remove(path string, recursive bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return os.Remove(path)
	}

	names, err := readDirNames(path)
	if err != nil {
		return err
	}
	if len(names) > 0 && !recursive {
		return nativefs.ErrDirNotEmpty
	}

	var errs error
	for i := len(names) - 1; i >= 0; i-- {
		child := filepath.Join(path, names[i])
		errs = multierr.Append(errs, nativefs.NewOpError(opDelete, child, fs.remove(child, true)))
	}
	return multierr.Append(errs, os.Remove(path))
}

// readDirNames lists a directory without "." and "..", unsorted
func readDirNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

// extensionOf returns the text after the last dot of name, or ""
func extensionOf(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}
