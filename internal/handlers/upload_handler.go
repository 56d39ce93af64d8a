package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"illustraBack/internal/models"
)

const maxUploadSize = 10 << 20

// Uploader stores an uploaded file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file []byte, fileName, folder, contentType string) (string, error)
}

type UploadHandler struct {
	Uploader Uploader
	ErrorLog *log.Logger
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Upload accepts a multipart "image" file and an optional "collection"
// folder, and answers with the stored file name and URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to get image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image file")
		return
	}
	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("unsupported image type %s", contentType))
		return
	}
	if orig := strings.ToLower(filepath.Ext(header.Filename)); orig == ".jpeg" || orig == ext {
		ext = orig
	}

	folder := r.FormValue("collection")
	if folder == "" {
		folder = "uploads"
	} else if !models.IsCatalogCollection(folder) {
		writeError(w, http.StatusBadRequest, models.ErrUnknownCollection.Error())
		return
	}

	name := uuid.NewString() + ext
	url, err := h.Uploader.Upload(r.Context(), data, name, folder, contentType)
	if err != nil {
		h.ErrorLog.Printf("upload %s: %v", name, err)
		writeError(w, http.StatusBadGateway, "Upload failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"filename": name, "url": url})
}
