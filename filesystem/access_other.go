//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package filesystem

import "os"

func canRead(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// canWrite only inspects the owner write bit
func canWrite(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().Perm()&0o200 != 0
}
