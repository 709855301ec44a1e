package upload

import (
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"
)

// Audio is an upload persisted for the duration of one request. The owner
// must call Release, normally with defer, once the provider call is over.
type Audio struct {
	// Path is the temporary file on disk.
	Path string
	// FileName is the sanitized client file name.
	FileName string
	// MIMEType is sniffed from content, or the declared part type when
	// sniffing is inconclusive.
	MIMEType string
	Size     int64
	// Duration is measured for MP3 uploads; zero when unknown.
	Duration time.Duration

	once       sync.Once
	releaseErr error
}

// Release removes the temporary file. It is safe to call more than once;
// only the first call touches the disk. A file that is already gone is
// not an error.
func (a *Audio) Release() error {
	a.once.Do(func() {
		err := os.Remove(a.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			a.releaseErr = err
		}
	})
	return a.releaseErr
}
