//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package filesystem

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/nativefs"
)

func TestHashFile(t *testing.T) {
	t.Parallel()

	fs, _ := newTestFs(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"abc.txt": "abc"})
	p := filepath.Join(root, "abc.txt")

	tests := []struct {
		typ nativefs.HashType
		exp string
	}{
		{nativefs.HashSHA1, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{nativefs.HashMD5, "900150983cd24fb0d6963f7d28e17f72"},
		{"", "900150983cd24fb0d6963f7d28e17f72"},
		{"whirlpool", "900150983cd24fb0d6963f7d28e17f72"},
		{nativefs.HashSHA256, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{nativefs.HashBLAKE2b, "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"_", func(t *testing.T) {
			digest, err := fs.HashFile(p, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.exp, digest)
		})
	}

	_, err := fs.HashFile(filepath.Join(root, "missing"), nativefs.HashMD5)
	assert.ErrorIs(t, err, nativefs.ErrNotExist)
}

func TestPermissions(t *testing.T) {
	t.Parallel()

	fs, _ := newTestFs(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x"})
	p := filepath.Join(root, "f.txt")

	t.Run("ChmodSetsAndGets", func(t *testing.T) {
		perms, err := fs.Chmod(p, 0o640)
		require.NoError(t, err)
		assert.Equal(t, "", perms)

		perms, err = fs.Chmod(p, 0)
		require.NoError(t, err)
		assert.Equal(t, "0640", perms)
	})

	t.Run("SplitOperations", func(t *testing.T) {
		require.NoError(t, fs.SetPermissions(p, nativefs.ModeFilePrivate))
		perms, err := fs.GetPermissions(p)
		require.NoError(t, err)
		assert.Equal(t, "0600", perms)
	})

	t.Run("StickyDir", func(t *testing.T) {
		d := filepath.Join(root, "sticky")
		require.NoError(t, os.Mkdir(d, 0o755))
		require.NoError(t, fs.SetPermissions(d, 0o777|os.ModeSticky))
		perms, err := fs.GetPermissions(d)
		require.NoError(t, err)
		assert.Equal(t, "1777", perms)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := fs.GetPermissions(filepath.Join(root, "missing"))
		assert.ErrorIs(t, err, nativefs.ErrNotExist)
		assert.ErrorIs(t, fs.SetPermissions(filepath.Join(root, "missing"), 0o644), nativefs.ErrNotExist)
	})
}

func TestFormatMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0644", FormatMode(0o644))
	assert.Equal(t, "0000", FormatMode(0))
	assert.Equal(t, "4755", FormatMode(0o755|os.ModeSetuid))
	assert.Equal(t, "2750", FormatMode(0o750|os.ModeSetgid))
	assert.Equal(t, "0755", FormatMode(0o755|os.ModeDir))
}

func TestType(t *testing.T) {
	t.Parallel()

	fs, _ := newTestFs(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x"})
	require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "d"), filepath.Join(root, "link")))
	require.NoError(t, syscall.Mkfifo(filepath.Join(root, "pipe"), 0o644))

	tests := map[string]nativefs.FileType{
		"f.txt": nativefs.FileRegType,
		"d":     nativefs.DirType,
		"link":  nativefs.LinkType,
		"pipe":  nativefs.FifoType,
	}
	for name, exp := range tests {
		typ, err := fs.Type(filepath.Join(root, name))
		require.NoError(t, err)
		assert.Equal(t, exp, typ, name)
	}

	typ, err := fs.Type("/dev/null")
	if err == nil {
		assert.Equal(t, nativefs.CharType, typ)
	}

	t.Run("Socket", func(t *testing.T) {
		// unix socket paths are length limited, keep it short
		sockDir, err := os.MkdirTemp("", "nfs")
		require.NoError(t, err)
		defer os.RemoveAll(sockDir)
		sock := filepath.Join(sockDir, "s")
		l, err := net.Listen("unix", sock)
		if err != nil {
			t.Skipf("unix sockets unavailable: %v", err)
		}
		defer l.Close()

		typ, err := fs.Type(sock)
		require.NoError(t, err)
		assert.Equal(t, nativefs.SocketType, typ)
	})

	t.Run("Missing", func(t *testing.T) {
		typ, err := fs.Type(filepath.Join(root, "missing"))
		assert.ErrorIs(t, err, nativefs.ErrNotExist)
		assert.Equal(t, nativefs.UnknownType, typ)
	})
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	fs, _ := newTestFs(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x"})
	f := filepath.Join(root, "f.txt")
	broken := filepath.Join(root, "broken")
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), broken))

	assert.True(t, fs.Exists(f))
	assert.True(t, fs.Exists(root))
	assert.False(t, fs.Exists(broken), "broken symlinks do not exist")
	assert.False(t, fs.Exists(filepath.Join(root, "missing")))

	assert.True(t, fs.IsFile(f))
	assert.False(t, fs.IsFile(root))
	assert.True(t, fs.IsDir(root))
	assert.False(t, fs.IsDir(f))

	assert.True(t, fs.IsReadable(f))
	assert.True(t, fs.IsWritable(f))
	assert.False(t, fs.IsReadable(filepath.Join(root, "missing")))
	assert.False(t, fs.IsWritable(filepath.Join(root, "missing")))

	if os.Geteuid() != 0 {
		ro := filepath.Join(root, "ro.txt")
		writeTree(t, root, map[string]string{"ro.txt": "r"})
		require.NoError(t, os.Chmod(ro, 0o444))
		assert.True(t, fs.IsReadable(ro))
		assert.False(t, fs.IsWritable(ro))
	}
}

func TestTimes(t *testing.T) {
	t.Parallel()

	fs, _ := newTestFs(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x"})
	p := filepath.Join(root, "f.txt")
	atime := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	mtime := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(p, atime, mtime))

	got, err := fs.Mtime(p)
	require.NoError(t, err)
	assert.Equal(t, mtime.Unix(), got)

	got, err = fs.Atime(p)
	require.NoError(t, err)
	assert.Equal(t, atime.Unix(), got)

	got, err = fs.Ctime(p)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Unix(), got, 60, "ctime is the last status change")

	_, err = fs.Mtime(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, nativefs.ErrNotExist)
}

func TestMimetype(t *testing.T) {
	t.Parallel()

	fs, _ := newTestFs(t)
	root := t.TempDir()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	require.NoError(t, os.WriteFile(filepath.Join(root, "image.bin"), png, 0o644))
	writeTree(t, root, map[string]string{"notes": "plain words here\n"})

	mime, err := fs.Mimetype(filepath.Join(root, "image.bin"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	mime, err = fs.Mimetype(filepath.Join(root, "notes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mime, "text/plain"), mime)

	mime, err = fs.Mimetype(root)
	require.NoError(t, err)
	assert.Equal(t, DirectoryMime, mime)

	_, err = fs.Mimetype(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, nativefs.ErrNotExist)
}
