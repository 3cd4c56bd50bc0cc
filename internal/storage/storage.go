// Package storage keeps payment proof files in an object store bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// BlobStore uploads, deletes and links objects in one bucket
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a client supplied name to a safe object key segment
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "proof"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}

// ProofKey builds <tenant_id>/<month>_<short-id>_<filename>. The random
// segment keeps a resubmission for the same month from overwriting the
// earlier object.
func ProofKey(tenantID int64, month, filename string) string {
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d/%s_%s_%s", tenantID, month, short, SanitizeFilename(filename))
}

// escapeKey escapes each path segment of key for use in a URL
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
