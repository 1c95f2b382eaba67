package catalog

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// MinioSource reads the catalog document from an object in a bucket.
type MinioSource struct {
	Client *minio.Client
	Bucket string
	Object string
}

func (s MinioSource) Name() string { return fmt.Sprintf("minio:%s/%s", s.Bucket, s.Object) }

func (s MinioSource) Fetch(ctx context.Context) (Document, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Object, minio.GetObjectOptions{})
	if err != nil {
		return Document{}, fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()
	return decodeDocument(obj)
}
