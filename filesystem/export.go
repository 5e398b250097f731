package filesystem

import (
	"time"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/codec"
)

// Export encodes data in the format named by the extension of path
// ("out.json", "out.yaml.gz", "out.toml.zst", ...) and writes it under an
// exclusive lock. Unknown extensions fail with [nativefs.ErrInvalidArgument]
// before anything touches the filesystem.
func (fs *Fs) Export(path string, data any) (err error) {
	defer fs.track(opExport, path, time.Now(), &err)

	c, comp, err := fs.codecs.ForPath(path)
	if err != nil {
		return nativefs.NewOpError(opExport, path, err)
	}
	payload, err := c.Marshal(data)
	if err != nil {
		return nativefs.NewOpError(opExport, path, err)
	}
	if payload, err = codec.Compress(payload, comp); err != nil {
		return nativefs.NewOpError(opExport, path, err)
	}
	return nativefs.NewOpError(opExport, path, fs.put(path, payload, true, false))
}

// Import reads a file written by Export under a shared lock and decodes it
// into out.
func (fs *Fs) Import(path string, out any) (err error) {
	defer fs.track(opImport, path, time.Now(), &err)

	c, comp, err := fs.codecs.ForPath(path)
	if err != nil {
		return nativefs.NewOpError(opImport, path, err)
	}
	payload, err := fs.readFile(path, true)
	if err != nil {
		return nativefs.NewOpError(opImport, path, err)
	}
	if payload, err = codec.Decompress(payload, comp); err != nil {
		return nativefs.NewOpError(opImport, path, err)
	}
	return nativefs.NewOpError(opImport, path, c.Unmarshal(payload, out))
}
