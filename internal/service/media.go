package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/storage"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
)

// folderPattern allows nested folders of alphanumerics, hyphens and
// underscores, e.g. "vendor-images/logos".
var folderPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+(/[a-zA-Z0-9_-]+)*$`)

// MediaService forwards vendor image uploads to the object store.
type MediaService struct {
	storage       storage.Storage
	maxBytes      int64
	defaultFolder string
	logger        *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(store storage.Storage, maxBytes int64, defaultFolder string, logger *slog.Logger) *MediaService {
	return &MediaService{
		storage:       store,
		maxBytes:      maxBytes,
		defaultFolder: defaultFolder,
		logger:        logger,
	}
}

// MaxBytes is the largest accepted upload.
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// UploadInput holds an image upload.
type UploadInput struct {
	VendorID    string
	Folder      string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Upload stores an image under folder/<uuid><ext> and returns its URL.
func (s *MediaService) Upload(ctx context.Context, input UploadInput) (*domain.Upload, error) {
	ext, ok := domain.ImageExtension(input.ContentType)
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", input.ContentType))
	}
	if input.Size <= 0 {
		return nil, apperrors.InvalidInput("file is empty")
	}
	if input.Size > s.maxBytes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("file size %d exceeds maximum allowed size of %d bytes", input.Size, s.maxBytes))
	}

	folder := strings.Trim(strings.TrimSpace(input.Folder), "/")
	if folder == "" {
		folder = s.defaultFolder
	}
	if !folderPattern.MatchString(folder) {
		return nil, apperrors.InvalidInput("folder contains invalid characters")
	}

	key := path.Join(folder, uuid.New().String()+ext)
	mediaType, _, _ := strings.Cut(input.ContentType, ";")

	result, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: strings.TrimSpace(mediaType),
		Size:        input.Size,
		Data:        input.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	s.logger.InfoContext(ctx, "image uploaded",
		slog.String("vendor_id", input.VendorID),
		slog.String("key", result.Key),
		slog.Int64("size", input.Size),
	)

	return &domain.Upload{
		Key:         result.Key,
		URL:         result.URL,
		ContentType: strings.TrimSpace(mediaType),
		Size:        input.Size,
	}, nil
}
