package filesystem

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/internal/locks"
)

// ReadFile returns the whole content of path. With lock, the read happens
// under a shared advisory lock and reads exactly the size observed after the
// lock was taken.
func (fs *Fs) ReadFile(path string, lock bool) (content []byte, err error) {
	defer fs.track(opRead, path, time.Now(), &err)
	content, err = fs.readFile(path, lock)
	return content, nativefs.NewOpError(opRead, path, err)
}

// ReadString is ReadFile returning "" on any failure
func (fs *Fs) ReadString(path string, lock bool) string {
	content, err := fs.ReadFile(path, lock)
	if err != nil {
		return ""
	}
	return string(content)
}

// ReadFileLines splits the file into lines without their "\n" or "\r\n"
// endings. A trailing newline does not produce a final empty line.
func (fs *Fs) ReadFileLines(path string, skipEmpty bool) (lines []string, err error) {
	defer fs.track(opReadLines, path, time.Now(), &err)

	content, err := fs.readFile(path, false)
	if err != nil {
		return nil, nativefs.NewOpError(opReadLines, path, err)
	}

	lines = make([]string, 0)
	if len(content) == 0 {
		return lines, nil
	}
	raw := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if skipEmpty && line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (fs *Fs) readFile(path string, lock bool) ([]byte, error) {
	if !lock {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := fs.locks.Acquire(f, locks.Shared)
	if err != nil {
		return nil, err
	}
	defer h.Release()

	// size must be taken after the lock so a concurrent writer is not observed mid-write
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, max(info.Size(), 1))
	n, err := io.ReadFull(f, buf)
	switch {
	case errors.Is(err, io.EOF):
		return []byte{}, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:n], nil
	case err != nil:
		return nil, err
	}
	return buf[:n], nil
}
