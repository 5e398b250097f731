//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package locks

import "os"

// flock is unavailable here; the in-process layer is the only guard.
func flock(_ *os.File, _ Mode) error { return nil }

func funlock(_ *os.File) error { return nil }
