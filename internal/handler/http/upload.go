package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ShaikhZaamir/vendor-portal/internal/service"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
	"github.com/ShaikhZaamir/vendor-portal/pkg/httputil"
	"github.com/ShaikhZaamir/vendor-portal/pkg/middleware"
)

// multipartOverhead is allowed on top of the file size for form boundaries
// and the other fields.
const multipartOverhead = 64 << 10

// sniffLen is how much of a file http.DetectContentType looks at.
const sniffLen = 512

// UploadHandler accepts image uploads for the authenticated vendor.
type UploadHandler struct {
	service *service.MediaService
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload HTTP handler.
func NewUploadHandler(svc *service.MediaService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{service: svc, logger: logger}
}

// Upload handles POST /api/v1/me/uploads (multipart: file, folder).
// The content type is taken from the file's bytes, not from what the client
// declared.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.service.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, r, apperrors.InvalidInput(fmt.Sprintf("file exceeds maximum allowed size of %d bytes", maxBytes)), h.logger)
			return
		}
		httputil.WriteError(w, r, apperrors.InvalidInput("expected a multipart form with a file field"), h.logger)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("file is required"), h.logger)
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		httputil.WriteError(w, r, fmt.Errorf("read upload: %w", err), h.logger)
		return
	}
	head = head[:n]

	upload, err := h.service.Upload(r.Context(), service.UploadInput{
		VendorID:    middleware.VendorIDFromContext(r.Context()),
		Folder:      r.FormValue("folder"),
		ContentType: http.DetectContentType(head),
		Size:        header.Size,
		Data:        io.MultiReader(bytes.NewReader(head), file),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, upload)
}
