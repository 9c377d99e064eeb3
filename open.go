package freqplot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const googleStoragePrefix = "gs://"

// IsGoogleStoragePath reports whether path names an object in Google Storage.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, googleStoragePrefix)
}

// JoinPath joins a directory and a file name. Google Storage prefixes are
// joined with a forward slash; anything else is treated as a local path.
func JoinPath(dir, name string) string {
	if IsGoogleStoragePath(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}

	return filepath.Join(dir, name)
}

// SplitGoogleStoragePath splits gs://bucket/path/to/object into the bucket and
// the object name.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, googleStoragePrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into bucket and object, but got %d parts: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// Open returns a reader over the (decompressed) contents of path. Paths that
// begin with gs:// are read through client, which must then be non-nil;
// anything else is opened from the local filesystem. A missing local file
// yields an error that satisfies errors.Is(err, fs.ErrNotExist).
func Open(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	var src io.ReadCloser

	if IsGoogleStoragePath(path) {
		if client == nil {
			return nil, pfx.Err(fmt.Errorf("%s: no google storage client was configured", path))
		}

		bucketName, objectName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return nil, pfx.Err(err)
		}

		rdr, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
		src = rdr
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = f
	}

	decompressed, _, err := MaybeDecompress(src)
	if err != nil {
		src.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return &stackedReadCloser{Reader: decompressed, closers: []io.Closer{decompressed, src}}, nil
}

// stackedReadCloser reads from the outermost reader and closes every layer,
// innermost last.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
