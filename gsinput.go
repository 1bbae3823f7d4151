package ibdprep

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// IsGoogleStoragePath reports whether path names an object in a Google
// Storage bucket.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

// OpenInput opens a local path or, when client is non-nil, a gs:// object, and
// transparently decompresses it.
func OpenInput(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	if !IsGoogleStoragePath(path) {
		return OpenMaybeCompressed(path)
	}

	if client == nil {
		return nil, &IOError{Op: "open", Path: path, Err: fmt.Errorf("no google storage client was configured")}
	}

	// Detect the bucket and the path to the actual file
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[1] == "" {
		return nil, pfx.Err(fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts))
	}
	bucketName := pathParts[0]
	pathName := pathParts[1]

	// Open the bucket with default credentials
	handle := client.Bucket(bucketName).Object(pathName)

	rdr, err := handle.NewReader(ctx)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	rc, err := MaybeDecompress(rdr)
	if err != nil {
		rdr.Close()
		return nil, &IOError{Op: "decompress", Path: path, Err: err}
	}

	return &stackedReadCloser{ReadCloser: rc, under: rdr}, nil
}
