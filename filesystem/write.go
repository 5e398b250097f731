package filesystem

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/internal/locks"
)

// Touch sets the access and modification times of path to t, or now when t is
// zero. A missing file is created empty.
func (fs *Fs) Touch(path string, t time.Time) (err error) {
	defer fs.track(opTouch, path, time.Now(), &err)

	if t.IsZero() {
		t = time.Now()
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o666)
		if err != nil {
			return nativefs.NewOpError(opTouch, path, err)
		}
		if err := f.Close(); err != nil {
			return nativefs.NewOpError(opTouch, path, err)
		}
	}
	return nativefs.NewOpError(opTouch, path, os.Chtimes(path, t, t))
}

// CreateFile writes an empty file under an exclusive lock, then applies mode.
// A zero mode uses the configured default.
func (fs *Fs) CreateFile(path string, mode os.FileMode) (err error) {
	defer fs.track(opCreateFile, path, time.Now(), &err)

	if mode == 0 {
		mode = fs.cfg.FileMode
	}
	if err := fs.put(path, nil, true, false); err != nil {
		return nativefs.NewOpError(opCreateFile, path, err)
	}
	return nativefs.NewOpError(opCreateFile, path, os.Chmod(path, mode))
}

// CreateDir creates path, plus any missing parents when recursive. It fails
// when path already exists. The leaf is chmod-ed to mode so the umask does
// not apply. A zero mode uses the configured default.
func (fs *Fs) CreateDir(path string, mode os.FileMode, recursive bool) (err error) {
	defer fs.track(opCreateDir, path, time.Now(), &err)

	if mode == 0 {
		mode = fs.cfg.DirMode
	}
	if _, err := os.Lstat(path); err == nil {
		return nativefs.NewOpError(opCreateDir, path, nativefs.ErrExist)
	}
	if recursive {
		err = os.MkdirAll(path, mode)
	} else {
		err = os.Mkdir(path, mode)
	}
	if err != nil {
		return nativefs.NewOpError(opCreateDir, path, err)
	}
	return nativefs.NewOpError(opCreateDir, path, os.Chmod(path, mode))
}

// WriteFile replaces the content of path, creating missing parent directories.
// With lock, the truncate and write happen under an exclusive lock.
func (fs *Fs) WriteFile(path string, content []byte, lock bool) (err error) {
	defer fs.track(opWrite, path, time.Now(), &err)
	return nativefs.NewOpError(opWrite, path, fs.put(path, content, lock, false))
}

// AppendFile appends content to path, creating the file and missing parents.
func (fs *Fs) AppendFile(path string, content []byte, lock bool) (err error) {
	defer fs.track(opAppend, path, time.Now(), &err)
	return nativefs.NewOpError(opAppend, path, fs.put(path, content, lock, true))
}

// PrependFile writes content followed by the current content of path.
//
// The read and the write are two separately locked steps; a writer that runs
// between them is lost.
func (fs *Fs) PrependFile(path string, content []byte, lock bool) (err error) {
	defer fs.track(opPrepend, path, time.Now(), &err)

	var existing []byte
	if fs.exists(path) {
		if existing, err = fs.readFile(path, lock); err != nil {
			return nativefs.NewOpError(opPrepend, path, err)
		}
	}
	merged := make([]byte, 0, len(content)+len(existing))
	merged = append(merged, content...)
	merged = append(merged, existing...)
	return nativefs.NewOpError(opPrepend, path, fs.put(path, merged, lock, false))
}

// WriteFileAtomic writes content to a temporary sibling of path and renames it
// into place, so readers see either the old or the new content. A zero mode
// uses the configured default.
func (fs *Fs) WriteFileAtomic(path string, content []byte, mode os.FileMode) (err error) {
	defer fs.track(opWriteAtomic, path, time.Now(), &err)

	if mode == 0 {
		mode = fs.cfg.FileMode
	}
	if err := fs.ensureDir(path); err != nil {
		return nativefs.NewOpError(opWriteAtomic, path, err)
	}
	tmp, err := writeTemp(path, func(f *os.File) error {
		_, err := f.Write(content)
		return err
	})
	if err != nil {
		return nativefs.NewOpError(opWriteAtomic, path, err)
	}
	if err := os.Chmod(tmp, mode); err != nil {
		_ = os.Remove(tmp)
		return nativefs.NewOpError(opWriteAtomic, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nativefs.NewOpError(opWriteAtomic, path, err)
	}
	return nil
}

// put writes content to path, truncating unless appendMode is set.
func (fs *Fs) put(path string, content []byte, lock, appendMode bool) (err error) {
	if err := fs.ensureDir(path); err != nil {
		return err
	}

	flag := os.O_WRONLY | os.O_CREATE
	switch {
	case appendMode:
		flag |= os.O_APPEND
	case !lock:
		flag |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0o666)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if lock {
		h, err := fs.locks.Acquire(f, locks.Exclusive)
		if err != nil {
			return err
		}
		defer h.Release()
		if !appendMode {
			// truncate only once the lock is held
			if err := f.Truncate(0); err != nil {
				return err
			}
		}
	}
	_, err = f.Write(content)
	return err
}

// ensureDir creates the parent directory of path when missing
func (fs *Fs) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if fs.isDir(dir) {
		return nil
	}
	return os.MkdirAll(dir, nativefs.ModeDirPublic)
}

// writeTemp creates a uniquely named file next to path, fills it with write
// and syncs it. The caller owns the returned file name.
func writeTemp(path string, write func(f *os.File) error) (string, error) {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := write(f); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}
