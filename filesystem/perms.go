package filesystem

import (
	"fmt"
	"os"
	"time"

	"github.com/brettbedarf/nativefs"
)

// Chmod sets the mode of path when mode is non-zero and returns "". A zero
// mode instead returns the current bits, as [Fs.GetPermissions] does.
func (fs *Fs) Chmod(path string, mode os.FileMode) (string, error) {
	if mode > 0 {
		return "", fs.SetPermissions(path, mode)
	}
	return fs.GetPermissions(path)
}

// GetPermissions returns the permission bits of path, including
// setuid/setgid/sticky, as a 4 digit octal string such as "0644".
func (fs *Fs) GetPermissions(path string) (perms string, err error) {
	defer fs.track(opChmod, path, time.Now(), &err)

	info, err := os.Stat(path)
	if err != nil {
		return "", nativefs.NewOpError(opChmod, path, err)
	}
	return FormatMode(info.Mode()), nil
}

// SetPermissions applies mode to path. Setuid, setgid and sticky bits in
// mode are applied too.
func (fs *Fs) SetPermissions(path string, mode os.FileMode) (err error) {
	defer fs.track(opChmod, path, time.Now(), &err)
	return nativefs.NewOpError(opChmod, path, os.Chmod(path, mode))
}

// FormatMode renders the chmod(2) bits of m as 4 octal digits
func FormatMode(m os.FileMode) string {
	bits := uint32(m.Perm())
	if m&os.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if m&os.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if m&os.ModeSticky != 0 {
		bits |= 0o1000
	}
	return fmt.Sprintf("%04o", bits)
}

// chmodBits keeps only the bits os.Chmod applies
func chmodBits(m os.FileMode) os.FileMode {
	return m & (os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky)
}
