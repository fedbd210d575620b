package bucket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
)

// toRemoveCh converts a string slice to a <-chan minio.ObjectInfo
func toRemoveCh(keys []string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	go func() {
		for _, key := range keys {
			ch <- minio.ObjectInfo{Key: key}
		}
		close(ch)
	}()
	return ch
}

// DeleteFromBucket deletes objects from the specified bucket. Empty keys are
// skipped: they stand for pasted URLs that were never uploaded.
func (b *Bucket) DeleteFromBucket(ctx context.Context, objectKeys []string) error {
	keys := make([]string, 0, len(objectKeys))
	for _, key := range objectKeys {
		if key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	var deleteErrors []error

	errorCh := b.Client.RemoveObjects(ctx, b.Config.S3BucketName, toRemoveCh(keys), minio.RemoveObjectsOptions{})

	for dErr := range errorCh {
		slog.Default().ErrorContext(ctx, "failed to delete object from s3 bucket",
			slog.String("object_key", dErr.ObjectName),
			slog.String("err", dErr.Err.Error()),
		)

		deleteErrors = append(deleteErrors, dErr.Err)
	}

	if len(deleteErrors) > 0 {
		var errMsgs []string
		for _, err := range deleteErrors {
			errMsgs = append(errMsgs, err.Error())
		}
		return fmt.Errorf("errors during deletion: %s", strings.Join(errMsgs, "; "))
	}

	return nil
}
