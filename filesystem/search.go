package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/brettbedarf/nativefs"
)

// Find walks root and returns the slash separated paths, relative to root,
// of every non-directory entry matching the doublestar pattern (for example
// "**/*.go"). Results are sorted. Symlinked directories are only followed
// when FollowSymlinks is configured.
func (fs *Fs) Find(ctx context.Context, root, pattern string) (matches []string, err error) {
	defer fs.track(opFind, root, time.Now(), &err)

	if !doublestar.ValidatePattern(pattern) {
		return nil, nativefs.NewOpError(opFind, root, doublestar.ErrBadPattern)
	}
	if !fs.isDir(root) {
		return nil, nativefs.NewOpError(opFind, root, nativefs.ErrNotDir)
	}

	var mu sync.Mutex
	matches = []string{}
	conf := fastwalk.Config{Follow: fs.cfg.FollowSymlinks}

	err = fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 && fs.isDir(p) {
			return nil
		}

		relPath, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			mu.Lock()
			matches = append(matches, relPath)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, nativefs.NewOpError(opFind, root, err)
	}

	slices.Sort(matches)
	return matches, nil
}
