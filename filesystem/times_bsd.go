//go:build darwin || freebsd || netbsd

package filesystem

import (
	"os"
	"syscall"
	"time"
)

func atimeOf(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Atimespec.Unix())
}

func ctimeOf(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Ctimespec.Unix())
}
