package ldmapper

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// OpenInput opens a local path (with ~/ expansion) or, when client is non-nil,
// a gs://bucket/object path. Compressed inputs are transparently decompressed.
// The caller must Close the returned reader.
func OpenInput(path string, client *storage.Client) (io.ReadCloser, error) {
	src, err := openRaw(path, client)
	if err != nil {
		return nil, err
	}

	r, err := MaybeDecompressReader(src)
	if err != nil {
		src.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return &readCloser{Reader: r, close: src.Close}, nil
}

func openRaw(path string, client *storage.Client) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "gs://") {
		if client == nil {
			return nil, fmt.Errorf("%s: a Google Storage client is required to read gs:// paths", path)
		}

		// Detect the bucket and the path to the actual file
		pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
		if len(pathParts) != 2 {
			return nil, fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
		}

		rdr, err := client.Bucket(pathParts[0]).Object(pathParts[1]).NewReader(context.Background())
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}

		return rdr, nil
	}

	return os.Open(ExpandHome(path))
}
