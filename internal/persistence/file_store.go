package persistence

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEmptyFile is returned for zero-byte uploads.
	ErrEmptyFile = errors.New("file is empty")
	// ErrFileTooLarge is returned when an upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrContentType is returned when an upload has a disallowed content type.
	ErrContentType = errors.New("content type not allowed")
)

// FileStore keeps uploaded files on local disk under a single directory.
type FileStore struct {
	dir       string
	maxBytes  int64
	urlPrefix string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir, maxBytes: maxBytes, urlPrefix: "/uploads/"}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// extensions lists the content types uploads may carry. The stored file's
// extension comes from here, never from the client's filename, because
// /uploads serves files with a type derived from the extension.
var extensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Save stores the upload under a random name and returns its public URL.
// allow decides on the declared content type.
func (s *FileStore) Save(fh *multipart.FileHeader, allow func(contentType string) bool) (string, error) {
	if fh.Size <= 0 {
		return "", ErrEmptyFile
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}
	contentType := mediaType(fh.Header.Get("Content-Type"))
	ext, known := extensions[contentType]
	if !known || !allow(contentType) {
		return "", ErrContentType
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return s.urlPrefix + name, nil
}

// IsImage accepts raster image types.
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") && extensions[contentType] != ""
}

// IsPDF accepts application/pdf only.
func IsPDF(contentType string) bool {
	return contentType == "application/pdf"
}

func mediaType(header string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}
