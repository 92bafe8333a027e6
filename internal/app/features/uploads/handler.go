// internal/app/features/uploads/handler.go
package uploads

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
)

// maxImageBytes caps a single upload. Product photos and slideshow
// banners; anything larger belongs on a CDN.
const maxImageBytes = 5 << 20

// allowedImageTypes are the sniffed content types accepted for upload.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Handler stores uploaded images under the local storage path. The files
// are served back by the static file server mounted on the storage URL.
type Handler struct {
	StoragePath string // local directory, e.g. "./uploads/images"
	StorageURL  string // public mount, e.g. "/files/images"
	Log         *zap.Logger
}

func NewHandler(storagePath, storageURL string, logger *zap.Logger) *Handler {
	return &Handler{
		StoragePath: storagePath,
		StorageURL:  strings.TrimRight(storageURL, "/"),
		Log:         logger,
	}
}

// HandleUploadImage handles POST /api/uploads/images with a multipart
// "image" field. The stored name is uuid-prefixed so repeat uploads of
// the same filename never collide, and the path is sharded by year/month.
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, `multipart field "image" is required`)
		return
	}
	defer file.Close()

	// Sniff the real content type; the client's header is advisory.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		h.Log.Error("upload read failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		respond.Error(w, http.StatusUnsupportedMediaType, "only JPEG, PNG, WebP, and GIF images are accepted")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.Log.Error("upload seek failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(header.Filename, ext))
	relPath := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	destDir := filepath.Join(h.StoragePath, dateDir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		h.Log.Error("upload dir create failed", zap.Error(err), zap.String("dir", destDir))
		respond.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	destPath := filepath.Join(destDir, uniqueName)
	dest, err := os.Create(destPath)
	if err != nil {
		h.Log.Error("upload create failed", zap.Error(err), zap.String("path", destPath))
		respond.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}
	defer dest.Close()

	size, err := io.Copy(dest, file)
	if err != nil {
		_ = os.Remove(destPath)
		h.Log.Error("upload write failed", zap.Error(err), zap.String("path", destPath))
		respond.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	url := h.StorageURL + "/" + relPath
	h.Log.Info("image uploaded",
		zap.String("path", relPath),
		zap.Int64("size", size),
		zap.String("content_type", contentType))

	respond.JSON(w, http.StatusCreated, map[string]any{
		"url":          url,
		"path":         relPath,
		"size":         size,
		"content_type": contentType,
	})
}

// sanitizeFilename keeps just a safe basename and forces the extension
// that matches the sniffed content type.
func sanitizeFilename(filename, ext string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	result := make([]byte, 0, len(base))
	for i := 0; i < len(base); i++ {
		c := base[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	if len(result) == 0 {
		result = []byte("image")
	}
	if len(result) > 80 {
		result = result[:80]
	}
	return string(result) + ext
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
