package ports

import "context"

// MediaStore uploads a local file and returns its public URL. The local
// file is removed by the implementation whether or not the upload
// succeeds.
type MediaStore interface {
	Store(ctx context.Context, localPath string) (string, error)
}
