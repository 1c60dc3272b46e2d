package upload

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// KeyFunc derives the storage key for a candidate. Keys must be unique per call.
type KeyFunc func(projectID string, c Candidate) string

// DefaultKey builds "<projectID>/<unix-millis>-<uuid><ext>".
func DefaultKey(projectID string, c Candidate) string {
	return fmt.Sprintf("%s/%d-%s%s", projectID, time.Now().UnixMilli(), uuid.NewString(), extension(c))
}

// extension follows the content type. The file name's extension is kept only
// when it names that same type.
func extension(c Candidate) string {
	ct := contentType(c)
	if ext := strings.ToLower(filepath.Ext(c.Filename)); ext != "" && ext != "." {
		if mediaType(mime.TypeByExtension(ext)) == ct {
			return ext
		}
	}
	if mt := mimetype.Lookup(ct); mt != nil {
		return mt.Extension()
	}
	return ""
}

// contentType prefers the image type sniffed from the bytes. Otherwise the
// declared type is used, unless it is missing or generic.
func contentType(c Candidate) string {
	detected := mediaType(mimetype.Detect(c.Data).String())
	if strings.HasPrefix(detected, "image/") {
		return detected
	}
	if ct := mediaType(c.ContentType); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return detected
}

// mediaType drops parameters: "image/jpeg; q=1" becomes "image/jpeg".
func mediaType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
