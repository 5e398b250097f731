package filesystem

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/brettbedarf/nativefs"
)

// HashFile returns the lowercase hex digest of the file content. An empty typ
// uses the configured default; unknown algorithms fall back to md5.
func (fs *Fs) HashFile(path string, typ nativefs.HashType) (digest string, err error) {
	defer fs.track(opHash, path, time.Now(), &err)

	if typ == "" {
		typ = fs.cfg.HashType
	}
	digest, err = hashFile(path, typ)
	return digest, nativefs.NewOpError(opHash, path, err)
}

func newHasher(typ nativefs.HashType) hash.Hash {
	switch typ {
	case nativefs.HashSHA1:
		return sha1.New()
	case nativefs.HashSHA256:
		return sha256.New()
	case nativefs.HashBLAKE2b:
		// only fails for keys longer than 64 bytes
		h, _ := blake2b.New256(nil)
		return h
	case nativefs.HashMD5:
		return md5.New()
	default:
		return md5.New()
	}
}

func hashFile(path string, typ nativefs.HashType) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := newHasher(typ)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
