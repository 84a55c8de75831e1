package persistence

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func TestFileStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewFileStore(dir, 1024)
	require.NoError(t, err)
	require.Equal(t, dir, store.Dir())

	url, err := store.Save(fileHeader(t, "Cover.PNG", "image/png", []byte("png-bytes")), IsImage)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	require.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(stored))
}

func TestFileStoreRejects(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), 8)
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "a.png", "image/png", nil), IsImage)
	require.ErrorIs(t, err, ErrEmptyFile)

	_, err = store.Save(fileHeader(t, "a.png", "image/png", []byte("way too many bytes")), IsImage)
	require.ErrorIs(t, err, ErrFileTooLarge)

	_, err = store.Save(fileHeader(t, "a.txt", "text/plain", []byte("tiny")), IsPDF)
	require.ErrorIs(t, err, ErrContentType)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFileStoreExtensionFollowsContentType(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), 1024)
	require.NoError(t, err)

	url, err := store.Save(fileHeader(t, "x.html", "image/png", []byte("<script></script>")), IsImage)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(url, ".png"), url)

	url, err = store.Save(fileHeader(t, "book", "application/pdf", []byte("%PDF-1.4")), IsPDF)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(url, ".pdf"), url)

	_, err = store.Save(fileHeader(t, "x.svg", "image/svg+xml", []byte("<svg/>")), IsImage)
	require.ErrorIs(t, err, ErrContentType)
}

func TestContentTypePredicates(t *testing.T) {
	require.True(t, IsImage("image/jpeg"))
	require.False(t, IsImage("image/svg+xml"))
	require.False(t, IsImage("application/pdf"))
	require.True(t, IsPDF("application/pdf"))
	require.False(t, IsPDF("application/pdf-x"))
}
