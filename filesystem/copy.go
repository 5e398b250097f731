package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brettbedarf/nativefs"
)

// Rename moves from to to with a single rename(2). It fails across devices.
func (fs *Fs) Rename(from, to string) (err error) {
	defer fs.track(opRename, from, time.Now(), &err)
	return nativefs.NewOpError(opRename, from, os.Rename(from, to))
}

// Copy copies a file or directory tree.
//
// A file fails with [nativefs.ErrExist] when to exists and replace is false.
// A directory always replaces an existing to: the old tree is deleted, then
// children are copied with the same replace flag, aborting on the first
// failure. Permission bits are copied from every source node. Symlinks are
// followed, as [Fs.Size] does; a link back into a directory being copied
// fails the copy.
//
// from and to must not be the same path or contain one another, otherwise
// [nativefs.ErrInvalidArgument] is returned before anything is touched.
//
// Success is verified by comparing the total sizes of both trees, or by
// comparing content hashes of every file when StrictCopy is configured.
func (fs *Fs) Copy(from, to string, replace bool) (err error) {
	defer fs.track(opCopy, from, time.Now(), &err)
	return nativefs.NewOpError(opCopy, from, fs.copyChecked(from, to, replace, fs.cfg.StrictCopy))
}

// CopyVerified is Copy with content hash verification regardless of config.
func (fs *Fs) CopyVerified(from, to string, replace bool) (err error) {
	defer fs.track(opCopy, from, time.Now(), &err)
	return nativefs.NewOpError(opCopy, from, fs.copyChecked(from, to, replace, true))
}

// Move copies from to to and deletes from once the copy is verified. When
// the copy fails from is untouched, and a partially copied directory at to
// is removed.
func (fs *Fs) Move(from, to string, replace bool) (err error) {
	defer fs.track(opMove, from, time.Now(), &err)

	// overlapping paths must fail before the cleanup below can touch to
	if _, err := overlapCheck(from, to); err != nil {
		return nativefs.NewOpError(opMove, from, err)
	}
	srcIsDir := fs.isDir(from)
	if err := fs.copyChecked(from, to, replace, fs.cfg.StrictCopy); err != nil {
		if srcIsDir && !errors.Is(err, nativefs.ErrExist) {
			if cleanupErr := fs.remove(to, true); cleanupErr != nil && !errors.Is(cleanupErr, os.ErrNotExist) {
				err = errors.Join(err, cleanupErr)
			}
		}
		return nativefs.NewOpError(opMove, from, err)
	}
	return nativefs.NewOpError(opMove, from, fs.remove(from, true))
}

func (fs *Fs) copyChecked(from, to string, replace, strict bool) error {
	dstRoot, err := overlapCheck(from, to)
	if err != nil {
		return err
	}
	if err := fs.copy(&treeCopy{replace: replace, dstRoot: dstRoot}, from, to); err != nil {
		return err
	}
	if strict {
		return fs.verifyContent(from, to)
	}
	if src, dst := fs.Size(from), fs.Size(to); src != dst {
		return fmt.Errorf("%w: source is %d bytes, destination %d", nativefs.ErrVerifyFailed, src, dst)
	}
	return nil
}

// treeCopy is the state of one recursive copy
type treeCopy struct {
	replace bool
	// destination root with symlinks in its parent resolved
	dstRoot string
	// source directories being copied, innermost last
	parents []os.FileInfo
}

func (fs *Fs) copy(c *treeCopy, from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return err
	}

	switch {
	case info.Mode().IsRegular():
		if !c.replace && fs.exists(to) {
			return fmt.Errorf("%s: %w", to, nativefs.ErrExist)
		}
		if err := fs.copyFile(from, to); err != nil {
			return err
		}
	case info.IsDir():
		if onPath(info, c.parents) {
			return fmt.Errorf("%s links back to a directory being copied: %w", from, nativefs.ErrInvalidArgument)
		}
		if resolved, err := filepath.EvalSymlinks(from); err != nil {
			return err
		} else if contains(c.dstRoot, resolved) {
			return fmt.Errorf("%s resolves into the destination %s: %w", from, c.dstRoot, nativefs.ErrInvalidArgument)
		}

		if _, err := os.Lstat(to); err == nil {
			if err := fs.remove(to, true); err != nil {
				return err
			}
		}
		if err := os.Mkdir(to, nativefs.ModeDirPublic); err != nil {
			return err
		}
		names, err := readDirNames(from)
		if err != nil {
			return err
		}
		c.parents = append(c.parents, info)
		for _, name := range names {
			if err := fs.copy(c, filepath.Join(from, name), filepath.Join(to, name)); err != nil {
				return nativefs.NewOpError(opCopy, filepath.Join(from, name), err)
			}
		}
		c.parents = c.parents[:len(c.parents)-1]
	default:
		return fmt.Errorf("cannot copy %s node: %w", fileType(info.Mode()), nativefs.ErrInvalidArgument)
	}

	return os.Chmod(to, chmodBits(info.Mode()))
}

// overlapCheck fails with [nativefs.ErrInvalidArgument] when from and to are
// the same path or one lies inside the other. It returns the resolved to.
func overlapCheck(from, to string) (string, error) {
	src, err := filepath.Abs(from)
	if err != nil {
		return "", err
	}
	if src, err = filepath.EvalSymlinks(src); err != nil {
		return "", err
	}
	dst, err := resolveParent(to)
	if err != nil {
		return "", err
	}
	if contains(src, dst) || contains(dst, src) {
		return "", fmt.Errorf("cannot copy %s onto %s: %w", from, to, nativefs.ErrInvalidArgument)
	}
	return dst, nil
}

// resolveParent makes path absolute and resolves symlinks in its existing
// ancestors. The last element is kept as is since copying replaces it.
func resolveParent(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir, rest := filepath.Dir(abs), []string{filepath.Base(abs)}
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent
	}
}

// contains reports whether path is dir or lies below it. Both must be clean
// absolute paths.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// copyFile streams from into a temporary sibling of to and renames it into
// place, so to is never observed partially written.
func (fs *Fs) copyFile(from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	var n int64
	tmp, err := writeTemp(to, func(out *os.File) error {
		var err error
		n, err = io.Copy(out, in)
		return err
	})
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, to); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	fs.metrics.AddCopied(n)
	return nil
}

// verifyContent compares sha256 digests of every file under from with its
// counterpart under to.
func (fs *Fs) verifyContent(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return compareFiles(from, to)
	}

	names, err := readDirNames(from)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := fs.verifyContent(filepath.Join(from, name), filepath.Join(to, name)); err != nil {
			return err
		}
	}
	return nil
}

func compareFiles(from, to string) error {
	want, err := hashFile(from, nativefs.HashSHA256)
	if err != nil {
		return err
	}
	got, err := hashFile(to, nativefs.HashSHA256)
	if err != nil {
		return fmt.Errorf("%w: %w", nativefs.ErrVerifyFailed, err)
	}
	if want != got {
		return fmt.Errorf("%w: %s differs from %s", nativefs.ErrVerifyFailed, to, from)
	}
	return nil
}
