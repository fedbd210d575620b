package bucket

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/gemora/store-manager/internal/entity"
)

// UploadFile streams an object into the bucket under
// <folder>/<epochMillis>_<sanitized filename> and returns its public URL
// along with the object key used for later cleanup.
func (b *Bucket) UploadFile(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (*entity.StoredFile, error) {
	objectKey := b.constructObjectKey(folder, filename, time.Now())

	_, err := b.Client.PutObject(ctx, b.Config.S3BucketName, objectKey, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object [%s]: %w", objectKey, err)
	}

	return &entity.StoredFile{
		URL:       b.getCDNURL(objectKey),
		ObjectKey: objectKey,
	}, nil
}
