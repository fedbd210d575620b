package bucket

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// sanitizeFilename collapses whitespace runs into underscores so object keys
// stay URL-safe.
func sanitizeFilename(name string) string {
	return whitespaceRe.ReplaceAllString(name, "_")
}

// constructObjectKey builds <baseFolder>/<folder>/<epochMillis>_<name>; the
// timestamp prefix keeps repeated uploads of the same file distinct.
func (b *Bucket) constructObjectKey(folder, filename string, now time.Time) string {
	name := fmt.Sprintf("%d_%s", now.UnixMilli(), sanitizeFilename(filename))
	return path.Clean(path.Join(b.BaseFolder, folder, name))
}

func (b *Bucket) getCDNURL(objectKey string) string {
	return fmt.Sprintf("https://%s.%s/%s", b.S3BucketName, b.S3Endpoint, objectKey)
}
