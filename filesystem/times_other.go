//go:build !(linux || darwin || freebsd || netbsd)

package filesystem

import (
	"os"
	"time"
)

// atime and ctime are not exposed portably here; both fall back to mtime.

func atimeOf(info os.FileInfo) time.Time {
	return info.ModTime()
}

func ctimeOf(info os.FileInfo) time.Time {
	return info.ModTime()
}
