package uploads

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MaxUploadBytes caps a single uploaded file at 10 MB.
const MaxUploadBytes = 10 << 20

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
}

var (
	ErrContentType = errors.New("unsupported file type")
	ErrTooLarge    = errors.New("file exceeds the 10 MB limit")
)

// ValidateFile checks the declared content type and size against the
// upload policy.
func ValidateFile(contentType string, size int64) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if _, ok := allowedContentTypes[ct]; !ok {
		return ErrContentType
	}
	if size > MaxUploadBytes {
		return ErrTooLarge
	}
	return nil
}

// GenerateStoredName builds a collision-resistant object key from the
// upload instant, a random suffix and the original extension.
func GenerateStoredName(originalName string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)

	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(suffix), ext)
}
