package filesystem

import (
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/brettbedarf/nativefs"
)

// DirectoryMime is reported for directories, which have no content to sniff
const DirectoryMime = "directory"

// Mimetype detects the MIME type of path from its content, e.g.
// "image/png" or "text/plain; charset=utf-8".
func (fs *Fs) Mimetype(path string) (mime string, err error) {
	defer fs.track(opMimetype, path, time.Now(), &err)

	if fs.isDir(path) {
		return DirectoryMime, nil
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", nativefs.NewOpError(opMimetype, path, err)
	}
	return mtype.String(), nil
}
